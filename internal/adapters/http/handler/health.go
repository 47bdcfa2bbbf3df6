package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-api/internal/adapters/http/middleware"
)

const healthCheckTimeout = 3 * time.Second

// DBPinger はデータベースの疎通確認を行います。
type DBPinger interface {
	Ping(ctx context.Context) error
}

// PingFunc は関数を DBPinger として扱うためのアダプタです。
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler は GET /healthz を提供します。
type HealthHandler struct {
	db DBPinger
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(db DBPinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check はデータベースに ping し、結果を JSON で返します。失敗時は 503 です。
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]string{"database": "ok"}
	code := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
		middleware.GetLogger(c).Warn().Err(err).Msg("health check failed: db ping")
	}

	return c.JSON(code, status)
}
