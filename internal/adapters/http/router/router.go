package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/ogurasousui/employee-api/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-api/internal/adapters/http/middleware"
	"github.com/ogurasousui/employee-api/internal/core/employee"
	"github.com/ogurasousui/employee-api/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps はルーター構築に必要な依存です。
type Deps struct {
	Logger   zerolog.Logger
	Service  employee.UseCase
	DB       handler.DBPinger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New はミドルウェアとルートを登録した echo インスタンスを返します。
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler()

	e.Use(
		middleware.RequestID(),
		middleware.ContextLogger(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.RequestLogger(),
		echomw.Recover(),
	)

	e.GET("/healthz", handler.NewHealthHandler(deps.DB).Check)
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	handler.NewEmployeeHandler(deps.Service, deps.Metrics).Register(e.Group("/api/employees"))

	return e
}
