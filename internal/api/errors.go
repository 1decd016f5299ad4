package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
)

// statusOf подбирает HTTP-код для ошибки операции
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case model.IsValidation(err), errors.Is(err, model.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, model.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// newHTTPErrorHandler отвечает конвертом {success:false, error} для любой ошибки
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := statusOf(err)

		res := model.ResultOf(err)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			res = model.Result{Success: false, Error: fmt.Sprint(httpErr.Message)}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, res)
		}
		if err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}
