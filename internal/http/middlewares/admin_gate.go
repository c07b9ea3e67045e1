package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmacedo/blogapp/internal/domain/user"
	"github.com/rmacedo/blogapp/internal/session"
)

// Keep this small interface so tests can fake it easily.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AdminGate struct {
	sessions *session.Manager
	users    UserGetter
}

func NewAdminGate(sessions *session.Manager, users UserGetter) *AdminGate {
	return &AdminGate{
		sessions: sessions,
		users:    users,
	}
}

const adminRequiredMsg = "Você precisa ser um administrador para acessar esta página."

// RequireAdmin gates the back-office. Anonymous visitors and
// non-admin users get the same message; the response does not reveal
// which case it was.
func (g *AdminGate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := g.sessions.UserID(c)

		if uid != "" {
			u, err := g.users.GetByID(c.Request.Context(), uid)

			if err == nil && u.Admin {
				c.Next()
				return
			}
		}

		g.sessions.FlashError(c, adminRequiredMsg)
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}
