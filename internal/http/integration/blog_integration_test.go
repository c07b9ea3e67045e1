// Package integration exercises the whole router over the in-memory
// repositories and session store, so the flows run without postgres or
// redis.
package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rmacedo/blogapp/internal/domain/user"
	httpx "github.com/rmacedo/blogapp/internal/http"
	"github.com/rmacedo/blogapp/internal/repo/memory"
	"github.com/rmacedo/blogapp/internal/security"
	"github.com/rmacedo/blogapp/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	router     *gin.Engine
	users      *memory.UsersRepo
	categories *memory.CategoriesRepo
	posts      *memory.PostsRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()

	users := memory.NewUsersRepo()
	categories := memory.NewCategoriesRepo()
	posts := memory.NewPostsRepo(categories)

	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour, false)

	router := httpx.NewRouter(httpx.Deps{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sessions: sessions,

		Users:      users,
		Categories: categories,
		Posts:      posts,

		PingDB:       func() error { return nil },
		PingSessions: func() error { return nil },
	})

	return &env{
		router:     router,
		users:      users,
		categories: categories,
		posts:      posts,
	}
}

func (e *env) seedAdmin(t *testing.T, email, password string) {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	err = e.users.Create(context.Background(), user.User{
		ID:           "admin-1",
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Admin:        true,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
}

// browser keeps cookies across requests, like a real user agent.
type browser struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, router http.Handler) *browser {
	return &browser{
		t:       t,
		router:  router,
		cookies: make(map[string]*http.Cookie),
	}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader

	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}

		b.cookies[c.Name] = c
	}

	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) login(email, password string) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, "/usuarios/login", url.Values{
		"email": {email},
		"senha": {password},
	})
}

func TestRegisteredUserCannotReachBackOffice(t *testing.T) {
	e := newEnv(t)
	b := newBrowser(t, e.router)

	w := b.do(http.MethodPost, "/usuarios/registro", url.Values{
		"nome":   {"Sam"},
		"email":  {"sam@example.com"},
		"senha":  {"1234"},
		"senha2": {"1234"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = b.login("sam@example.com", "1234")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	// a plain account is bounced from every admin page
	w = b.get("/admin/categorias")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = b.get("/")
	require.Contains(t, w.Body.String(), "Você precisa ser um administrador")
}

func TestAdminPublishFlow(t *testing.T) {
	e := newEnv(t)
	e.seedAdmin(t, "admin@example.com", "s3nh4")

	admin := newBrowser(t, e.router)

	w := admin.login("admin@example.com", "s3nh4")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = admin.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)

	// create a category
	w = admin.do(http.MethodPost, "/admin/categorias/nova", url.Values{
		"nome": {"Tecnologia"},
		"slug": {"tech"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = admin.get("/admin/categorias")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Categoria criada com sucesso")
	require.Contains(t, w.Body.String(), "Tecnologia")

	cats, err := e.categories.ListByName(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)

	// a duplicate slug re-renders the form with the conflict
	w = admin.do(http.MethodPost, "/admin/categorias/nova", url.Values{
		"nome": {"Outra"},
		"slug": {"tech"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "Este slug já está em uso")

	// publish a post in the category
	w = admin.do(http.MethodPost, "/admin/postagens/nova", url.Values{
		"titulo":    {"Olá mundo"},
		"slug":      {"ola-mundo"},
		"descricao": {"Primeira postagem do blog"},
		"conteudo":  {"Um conteúdo longo o bastante para passar."},
		"categoria": {cats[0].ID},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/postagens", w.Header().Get("Location"))

	// the public site sees it, no login needed
	visitor := newBrowser(t, e.router)

	w = visitor.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Olá mundo")

	w = visitor.get("/postagem/ola-mundo")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Um conteúdo longo o bastante para passar.")

	w = visitor.get("/categorias")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Tecnologia")

	w = visitor.get("/categorias/tech")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Olá mundo")

	// unknown slug bounces home with a one-shot flash
	w = visitor.get("/postagem/nao-existe")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = visitor.get("/")
	require.Contains(t, w.Body.String(), "Esta postagem não existe")

	w = visitor.get("/")
	require.NotContains(t, w.Body.String(), "Esta postagem não existe")
}

func TestCategoryDeleteLeavesPostsDangling(t *testing.T) {
	e := newEnv(t)
	e.seedAdmin(t, "admin@example.com", "s3nh4")

	admin := newBrowser(t, e.router)
	admin.login("admin@example.com", "s3nh4")

	admin.do(http.MethodPost, "/admin/categorias/nova", url.Values{
		"nome": {"Tecnologia"},
		"slug": {"tech"},
	})

	cats, err := e.categories.ListByName(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)

	admin.do(http.MethodPost, "/admin/postagens/nova", url.Values{
		"titulo":    {"Olá mundo"},
		"slug":      {"ola-mundo"},
		"descricao": {"Primeira postagem do blog"},
		"conteudo":  {"Um conteúdo longo o bastante para passar."},
		"categoria": {cats[0].ID},
	})

	w := admin.do(http.MethodPost, "/admin/categorias/deletar", url.Values{
		"id": {cats[0].ID},
	})
	require.Equal(t, http.StatusFound, w.Code)

	// the post survives with a dangling category reference
	w = admin.get("/admin/postagens")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Olá mundo")
	require.Contains(t, w.Body.String(), "sem categoria")

	// and the category pages no longer resolve
	visitor := newBrowser(t, e.router)

	w = visitor.get("/categorias/tech")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/categorias", w.Header().Get("Location"))

	w = visitor.get("/postagem/ola-mundo")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutEndsTheSession(t *testing.T) {
	e := newEnv(t)
	e.seedAdmin(t, "admin@example.com", "s3nh4")

	b := newBrowser(t, e.router)
	b.login("admin@example.com", "s3nh4")

	w := b.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)

	w = b.get("/usuarios/logout")
	require.Equal(t, http.StatusFound, w.Code)

	w = b.get("/admin")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestHealthEndpoints(t *testing.T) {
	e := newEnv(t)
	b := newBrowser(t, e.router)

	w := b.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	w = b.get("/readyz")
	require.Equal(t, http.StatusOK, w.Code)
}
