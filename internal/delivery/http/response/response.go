package response

import (
	"github.com/gin-gonic/gin"
)

// contextRequestID is the gin context key the request-id middleware sets.
const contextRequestID = "RequestID"

// Response is the JSON envelope every endpoint replies with. The correlation
// id is echoed so clients can quote it when reporting a failed upload or
// ingestion.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     any    `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends a success envelope.
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends a failure envelope. err carries structured detail such as
// field-level validation messages.
func Error(c *gin.Context, code int, message string, err any) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}

func requestID(c *gin.Context) string {
	v, _ := c.Get(contextRequestID)
	id, _ := v.(string)
	return id
}
