package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmacedo/blogapp/internal/session"
)

// User-facing messages, pt-BR like the rest of the site.
const (
	MsgInternalError = "Houve um erro interno"
)

// Render executes a template with pending flashes and the auth state
// merged into the page data.
func Render(c *gin.Context, sessions *session.Manager, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	data["Flashes"] = sessions.PopFlashes(c)
	data["LoggedIn"] = sessions.UserID(c) != ""

	c.HTML(status, name, data)
}

func RedirectWithSuccess(c *gin.Context, sessions *session.Manager, location, msg string) {
	sessions.FlashSuccess(c, msg)
	c.Redirect(http.StatusFound, location)
}

func RedirectWithError(c *gin.Context, sessions *session.Manager, location, msg string) {
	sessions.FlashError(c, msg)
	c.Redirect(http.StatusFound, location)
}
