package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmacedo/blogapp/internal/session"
)

type AdminHandler struct {
	sessions *session.Manager
}

func NewAdminHandler(sessions *session.Manager) *AdminHandler {
	return &AdminHandler{sessions: sessions}
}

func (h *AdminHandler) Index(c *gin.Context) {
	Render(c, h.sessions, http.StatusOK, "admin/index", gin.H{})
}
