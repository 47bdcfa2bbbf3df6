package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const loggerKey = "logger"

// ContextLogger はリクエスト ID とルートを付与したロガーを echo とリクエストのコンテキストに保存します。
// RequestID より後に登録してください。
func ContextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Logger()

			c.Set(loggerKey, &l)
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}

// GetLogger はリクエストスコープのロガーを返します。未設定なら zerolog の既定ロガーを返します。
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(loggerKey).(*zerolog.Logger); ok {
		return l
	}
	return zerolog.Ctx(c.Request().Context())
}

// RequestLogger はリクエストごとに 1 行、ステータスに応じたレベルでログを出力します。
// ハンドラのエラーはここで HTTPErrorHandler に渡されるため、記録されるステータスは最終的な値です。
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		HandleError: true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case v.Status >= 500:
				e = logger.Error().Err(v.Error)
			case v.Status >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", v.Status).
				Str("uri", v.URI).
				Str("ip", c.RealIP()).
				Msg("API")

			return nil
		},
	})
}
