package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-api/internal/adapters/http/middleware"
	"github.com/ogurasousui/employee-api/internal/core/employee"
)

// HTTPError は API のエラーレスポンス形式です。
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    statusCode(status),
		Message: message,
		Status:  status,
	}
}

// statusCode は "Not Found" を "NOT_FOUND" の形に変換します。
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func toHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	var echoErr *echo.HTTPError

	switch {
	case err == nil:
		return nil
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &echoErr):
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		return newHTTPError(echoErr.Code, msg)
	case errors.Is(err, employee.ErrEmployeeAlreadyExists), errors.Is(err, employee.ErrNonUniqueResult):
		return newHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return newHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, employee.ErrInvalidID):
		return newHTTPError(http.StatusBadRequest, err.Error())
	default:
		return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// NewErrorHandler は echo のエラーを HTTPError 形式の JSON に変換するハンドラを返します。
func NewErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.Status >= http.StatusInternalServerError {
			// 内部エラーの詳細はレスポンスに含めずログにのみ残す。
			middleware.GetLogger(c).Error().Err(err).Int("status", httpErr.Status).Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.Status)
		} else {
			writeErr = c.JSON(httpErr.Status, httpErr)
		}
		if writeErr != nil {
			middleware.GetLogger(c).Warn().Err(writeErr).Msg("failed to write error response")
		}
	}
}
