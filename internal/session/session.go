// Package session implements store-backed browser sessions with
// one-shot flash messages. The cookie carries a signed token whose id
// resolves to session state held in Redis (or memory, in tests).
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrNoSession = errors.New("session not found")

type Flash struct {
	Kind string `json:"kind"` // success_msg | error_msg
	Text string `json:"text"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

const cookieName = "blog_session"

// gin context cache key so one request loads the session at most once
const ctxSessionKey = "session.current"

type Manager struct {
	store  Store
	tokens *TokenCodec
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		tokens: NewTokenCodec(secret, ttl),
		ttl:    ttl,
		secure: secure,
	}
}

// current returns the request's session, loading it from the store on
// first use. A missing or invalid cookie yields nil without error.
func (m *Manager) current(c *gin.Context) *Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}

	raw, err := c.Cookie(cookieName)

	if err != nil || raw == "" {
		return nil
	}

	sid, err := m.tokens.Verify(raw)

	if err != nil {
		return nil
	}

	s, err := m.store.Get(c.Request.Context(), sid)

	if err != nil {
		return nil
	}

	c.Set(ctxSessionKey, s)

	return s
}

func (m *Manager) ensure(c *gin.Context) (*Session, error) {
	if s := m.current(c); s != nil {
		return s, nil
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	err := m.setCookie(c, s)

	if err != nil {
		return nil, err
	}

	c.Set(ctxSessionKey, s)

	return s, nil
}

func (m *Manager) save(c *gin.Context, s *Session) error {
	return m.store.Save(c.Request.Context(), s, m.ttl)
}

func (m *Manager) setCookie(c *gin.Context, s *Session) error {
	token, err := m.tokens.Mint(s.ID)

	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)

	return nil
}

// SignIn binds the session to a user, rotating the session id so a
// pre-login cookie cannot be replayed as an authenticated one.
func (m *Manager) SignIn(c *gin.Context, userID string) error {
	old := m.current(c)

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if old != nil {
		s.Flashes = old.Flashes
		_ = m.store.Delete(c.Request.Context(), old.ID)
	}

	err := m.save(c, s)

	if err != nil {
		return err
	}

	err = m.setCookie(c, s)

	if err != nil {
		return err
	}

	c.Set(ctxSessionKey, s)

	return nil
}

func (m *Manager) SignOut(c *gin.Context) {
	if s := m.current(c); s != nil {
		_ = m.store.Delete(c.Request.Context(), s.ID)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", m.secure, true)

	c.Set(ctxSessionKey, (*Session)(nil))
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func (m *Manager) UserID(c *gin.Context) string {
	s := m.current(c)

	if s == nil {
		return ""
	}

	return s.UserID
}

func (m *Manager) FlashSuccess(c *gin.Context, text string) {
	m.flash(c, Flash{Kind: "success_msg", Text: text})
}

func (m *Manager) FlashError(c *gin.Context, text string) {
	m.flash(c, Flash{Kind: "error_msg", Text: text})
}

func (m *Manager) flash(c *gin.Context, f Flash) {
	s, err := m.ensure(c)

	if err != nil {
		return
	}

	s.Flashes = append(s.Flashes, f)

	_ = m.save(c, s)
}

// PopFlashes drains pending flashes; they are shown exactly once.
func (m *Manager) PopFlashes(c *gin.Context) []Flash {
	s := m.current(c)

	if s == nil || len(s.Flashes) == 0 {
		return nil
	}

	out := s.Flashes
	s.Flashes = nil

	_ = m.save(c, s)

	return out
}
