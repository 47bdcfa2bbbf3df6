package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-api/internal/platform/metrics"
)

// Metrics はリクエスト件数と所要時間をルート単位で記録します。
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil && !c.Response().Committed {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTPRequest(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start))

			return nil
		}
	}
}
