package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	pingDB      func() error
	pingSession func() error
}

func NewHealthHandler(pingDB, pingSession func() error) *HealthHandler {
	return &HealthHandler{
		pingDB:      pingDB,
		pingSession: pingSession,
	}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.pingDB != nil {
		if err := h.pingDB(); err != nil {
			checks["db"] = "down"
			ready = false
		} else {
			checks["db"] = "ok"
		}
	}

	if h.pingSession != nil {
		if err := h.pingSession(); err != nil {
			checks["sessions"] = "down"
			ready = false
		} else {
			checks["sessions"] = "ok"
		}
	}

	status := http.StatusOK

	if !ready {
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, gin.H{"status": checks})
}
