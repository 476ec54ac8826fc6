package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp is the JSON envelope of the system endpoints. ErrorCode is 0 on
// success and mirrors the HTTP status otherwise.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// InternalError sends 500 internal server error.
// err is not exposed to the caller.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Text sends a plain-text body with the given status code.
// Used by endpoints whose clients read the raw body instead of the JSON envelope.
func Text(c *gin.Context, code int, message string) {
	c.Data(code, "text/plain; charset=utf-8", []byte(message))
}

// TooManyRequests sends 429 response.
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Resp{
		ErrorCode: http.StatusTooManyRequests,
		Message:   "Too Many Requests",
	})
}

// ServiceUnavailable sends 503 with the reason a dependency is not ready.
func ServiceUnavailable(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, Resp{
		ErrorCode: http.StatusServiceUnavailable,
		Message:   err.Error(),
	})
}
