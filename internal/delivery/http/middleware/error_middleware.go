package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"go-hiring-ingest/internal/delivery/http/response"
	"go-hiring-ingest/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Err != nil {
					slog.Error("request failed",
						"status", appErr.Code,
						"message", appErr.Message,
						"error", appErr.Err,
						"path", c.FullPath(),
						"request_id", c.GetString("RequestID"),
					)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
				return
			}

			// SECURITY: Never expose internal error details to clients.
			// Log the actual error server-side for debugging, but send a
			// generic message to the user to prevent information disclosure.
			slog.Error("unhandled error",
				"error", err,
				"path", c.FullPath(),
				"request_id", c.GetString("RequestID"),
			)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
