package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader はリクエスト ID を受け渡す HTTP ヘッダーです。
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// RequestID は X-Request-ID を引き継ぎ、無ければ UUID を採番します。
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			c.Set(requestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID は echo コンテキストに保存されたリクエスト ID を返します。
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
