package handlers_test

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rmacedo/blogapp/internal/domain/user"
	"github.com/rmacedo/blogapp/internal/http/handlers"
	"github.com/rmacedo/blogapp/internal/security"
	"github.com/rmacedo/blogapp/internal/session"
	"github.com/rmacedo/blogapp/web"
)

// Make sure gin does not spam the console during tests

func init() {
	gin.SetMode(gin.TestMode)
}

// shared helpers for the handler tests in this package

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.tmpl")))

	return r
}

func newTestSessions() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour, false)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doForm(router http.Handler, method, path string, form url.Values, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Response) {
	var body io.Reader

	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, w.Result()
}

func findSessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "blog_session" {
			return c
		}
	}

	return nil
}

// fake user store implementing handlers.UserStore

type fakeUserStore struct {
	createFn     func(ctx context.Context, u user.User) error
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)

	created []user.User
}

func (f *fakeUserStore) Create(ctx context.Context, u user.User) error {
	f.created = append(f.created, u)

	if f.createFn != nil {
		return f.createFn(ctx, u)
	}

	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}

	return user.User{}, user.ErrNotFound
}

func registerForm(nome, email, senha, senha2 string) url.Values {
	return url.Values{
		"nome":   {nome},
		"email":  {email},
		"senha":  {senha},
		"senha2": {senha2},
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		store          *fakeUserStore
		wantStatusCode int
		wantCreated    int
		wantBody       string
	}{
		{
			name:           "success redirects home",
			form:           registerForm("Sam", "sam@example.com", "1234", "1234"),
			store:          &fakeUserStore{},
			wantStatusCode: http.StatusFound,
			wantCreated:    1,
		},
		{
			name:           "missing name re-renders with errors",
			form:           registerForm("", "sam@example.com", "1234", "1234"),
			store:          &fakeUserStore{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantCreated:    0,
			wantBody:       "Nome inválido",
		},
		{
			name:           "password confirmation mismatch",
			form:           registerForm("Sam", "sam@example.com", "1234", "4321"),
			store:          &fakeUserStore{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantCreated:    0,
			wantBody:       "As senhas não coincidem",
		},
		{
			name: "email already registered",
			form: registerForm("Sam", "sam@example.com", "1234", "1234"),
			store: &fakeUserStore{
				getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
					return user.User{ID: "u1", Email: email}, nil
				},
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantCreated:    0,
			wantBody:       "Este e-mail já está registrado",
		},
		{
			name: "uniqueness race on insert reports the same conflict",
			form: registerForm("Sam", "sam@example.com", "1234", "1234"),
			store: &fakeUserStore{
				createFn: func(ctx context.Context, u user.User) error {
					return user.ErrEmailTaken
				},
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantBody:       "Este e-mail já está registrado",
			wantCreated:    1, // the insert is attempted; the store reports the conflict
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(tt.store, newTestSessions(), discardLogger(), nil)

			r := newTestEngine(t)
			r.POST("/usuarios/registro", h.Register)

			w, _ := doForm(r, http.MethodPost, "/usuarios/registro", tt.form)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body does not contain %q", tt.wantBody)
			}

			if tt.wantStatusCode != http.StatusFound && len(tt.store.created) != tt.wantCreated {
				t.Errorf("store writes = %d, want %d", len(tt.store.created), tt.wantCreated)
			}
		})
	}
}

func TestRegister_NewUsersAreNeverAdmin(t *testing.T) {
	store := &fakeUserStore{}
	h := handlers.NewAuthHandler(store, newTestSessions(), discardLogger(), nil)

	r := newTestEngine(t)
	r.POST("/usuarios/registro", h.Register)

	doForm(r, http.MethodPost, "/usuarios/registro", registerForm("Sam", "sam@example.com", "1234", "1234"))

	if len(store.created) != 1 {
		t.Fatalf("expected one store write, got %d", len(store.created))
	}

	if store.created[0].Admin {
		t.Errorf("registration must not create admins")
	}

	if store.created[0].PasswordHash == "1234" || store.created[0].PasswordHash == "" {
		t.Errorf("password must be stored hashed, got %q", store.created[0].PasswordHash)
	}
}

func loginRouter(t *testing.T, store *fakeUserStore) (*gin.Engine, *session.Manager) {
	t.Helper()

	sessions := newTestSessions()
	h := handlers.NewAuthHandler(store, sessions, discardLogger(), nil)

	r := newTestEngine(t)
	r.POST("/usuarios/login", h.Login)
	r.GET("/usuarios/logout", h.Logout)

	// probe route to observe the established identity
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, sessions.UserID(c))
	})

	return r, sessions
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("1234")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	known := user.User{ID: "u1", Email: "sam@example.com", PasswordHash: hash}

	store := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			if email == known.Email {
				return known, nil
			}
			return user.User{}, user.ErrNotFound
		},
	}

	tests := []struct {
		name         string
		email        string
		senha        string
		wantLocation string
		wantIdentity string
	}{
		{
			name:         "unknown account",
			email:        "nope@example.com",
			senha:        "1234",
			wantLocation: "/usuarios/login",
			wantIdentity: "",
		},
		{
			name:         "wrong password never establishes identity",
			email:        "sam@example.com",
			senha:        "wrong",
			wantLocation: "/usuarios/login",
			wantIdentity: "",
		},
		{
			name:         "correct credentials",
			email:        "sam@example.com",
			senha:        "1234",
			wantLocation: "/",
			wantIdentity: "u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := loginRouter(t, store)

			w, resp := doForm(r, http.MethodPost, "/usuarios/login", url.Values{
				"email": {tt.email},
				"senha": {tt.senha},
			})

			if w.Code != http.StatusFound {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusFound, w.Body.String())
			}

			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("redirect location = %q, want %q", got, tt.wantLocation)
			}

			cookie := findSessionCookie(resp)

			if cookie == nil {
				// a failed login still flashes, so a cookie may exist;
				// no cookie at all also means no identity
				return
			}

			w2, _ := doForm(r, http.MethodGet, "/whoami", nil, cookie)

			if got := w2.Body.String(); got != tt.wantIdentity {
				t.Errorf("identity after login = %q, want %q", got, tt.wantIdentity)
			}
		})
	}
}

func TestLogout_DropsIdentity(t *testing.T) {
	hash, _ := security.HashPassword("1234")

	store := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			return user.User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}

	r, _ := loginRouter(t, store)

	_, resp := doForm(r, http.MethodPost, "/usuarios/login", url.Values{
		"email": {"sam@example.com"},
		"senha": {"1234"},
	})

	cookie := findSessionCookie(resp)

	if cookie == nil {
		t.Fatalf("expected session cookie after login")
	}

	_, logoutResp := doForm(r, http.MethodGet, "/usuarios/logout", nil, cookie)

	// after logout the old cookie must not resolve to an identity
	w, _ := doForm(r, http.MethodGet, "/whoami", nil, cookie)

	if w.Body.String() != "" {
		t.Errorf("identity survives logout: %q", w.Body.String())
	}

	_ = logoutResp
}
