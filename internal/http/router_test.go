package http_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"

	httpx "github.com/rmacedo/blogapp/internal/http"
)

func TestNewRouter_ModeComesFromDeps(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// the process environment must not leak into the router
	t.Setenv("APP_ENV", "dev")

	gin.SetMode(gin.TestMode)
	httpx.NewRouter(httpx.Deps{Env: "prod", Log: log})

	if gin.Mode() != gin.ReleaseMode {
		t.Errorf("mode = %q, want release for Env=prod", gin.Mode())
	}

	gin.SetMode(gin.TestMode)
	httpx.NewRouter(httpx.Deps{Env: "dev", Log: log})

	if gin.Mode() != gin.TestMode {
		t.Errorf("mode = %q, want unchanged for Env=dev", gin.Mode())
	}
}
