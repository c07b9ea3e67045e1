package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmacedo/blogapp/internal/domain/user"
	"github.com/rmacedo/blogapp/internal/observability"
	"github.com/rmacedo/blogapp/internal/security"
	"github.com/rmacedo/blogapp/internal/session"
	"github.com/rmacedo/blogapp/internal/validation"
)

// Keep interfaces small so tests can fake them easily.
type UserStore interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthHandler struct {
	users    UserStore
	sessions *session.Manager
	log      *slog.Logger
	prom     *observability.Prom
}

func NewAuthHandler(users UserStore, sessions *session.Manager, log *slog.Logger, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		log:      log,
		prom:     prom,
	}
}

func (h *AuthHandler) countLogin(result string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(result).Inc()
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, h.sessions, http.StatusOK, "usuarios/registro", gin.H{
		"Form": user.RegisterForm{},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form user.RegisterForm

	_ = c.ShouldBind(&form)

	erros := validation.Check(map[string]string{
		"nome":  form.Nome,
		"email": form.Email,
		"senha": form.Senha,
	}, validation.RegisterSchema)

	erros = append(erros, validation.CheckConfirmation(form.Senha, form.Senha2)...)

	if len(erros) > 0 {
		Render(c, h.sessions, http.StatusUnprocessableEntity, "usuarios/registro", gin.H{
			"Erros": erros,
			"Form":  form,
		})
		return
	}

	ctx := c.Request.Context()

	// pre-check gives the friendlier message; the unique constraint
	// still closes the race on insert
	_, err := h.users.GetByEmail(ctx, form.Email)

	if err == nil {
		Render(c, h.sessions, http.StatusUnprocessableEntity, "usuarios/registro", gin.H{
			"Erros": []string{"Este e-mail já está registrado"},
			"Form":  form,
		})
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		h.log.Error("register: email lookup failed", "err", err)
		RedirectWithError(c, h.sessions, "/usuarios/registro", MsgInternalError)
		return
	}

	hash, err := security.HashPassword(form.Senha)

	if err != nil {
		h.log.Error("register: password hash failed", "err", err)
		RedirectWithError(c, h.sessions, "/usuarios/registro", MsgInternalError)
		return
	}

	u := user.NewFromRegisterForm(form, hash)

	err = h.users.Create(ctx, u)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			Render(c, h.sessions, http.StatusUnprocessableEntity, "usuarios/registro", gin.H{
				"Erros": []string{"Este e-mail já está registrado"},
				"Form":  form,
			})
			return
		}

		h.log.Error("register: create failed", "err", err)
		RedirectWithError(c, h.sessions, "/usuarios/registro", MsgInternalError)
		return
	}

	RedirectWithSuccess(c, h.sessions, "/", "Usuário criado com sucesso")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, h.sessions, http.StatusOK, "usuarios/login", gin.H{
		"Form": user.LoginForm{},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form user.LoginForm

	_ = c.ShouldBind(&form)

	ctx := c.Request.Context()

	u, err := h.users.GetByEmail(ctx, form.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.countLogin("bad_credentials")
			RedirectWithError(c, h.sessions, "/usuarios/login", "Esta conta não existe")
			return
		}

		h.countLogin("error")
		h.log.Error("login: user lookup failed", "err", err)
		RedirectWithError(c, h.sessions, "/usuarios/login", MsgInternalError)
		return
	}

	err = security.CheckPassword(u.PasswordHash, form.Senha)

	if err != nil {
		h.countLogin("bad_credentials")
		RedirectWithError(c, h.sessions, "/usuarios/login", "Senha incorreta")
		return
	}

	err = h.sessions.SignIn(c, u.ID)

	if err != nil {
		h.countLogin("error")
		h.log.Error("login: session create failed", "err", err)
		RedirectWithError(c, h.sessions, "/usuarios/login", MsgInternalError)
		return
	}

	if h.prom != nil {
		h.prom.SessionsActive.Inc()
	}

	h.countLogin("ok")
	RedirectWithSuccess(c, h.sessions, "/", "Login realizado com sucesso")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	wasLoggedIn := h.sessions.UserID(c) != ""

	h.sessions.SignOut(c)

	if h.prom != nil && wasLoggedIn {
		h.prom.SessionsActive.Dec()
	}

	RedirectWithSuccess(c, h.sessions, "/", "Deslogado com sucesso")
}
