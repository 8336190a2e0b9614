package httperr

import (
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Message string `json:"message"`
}

type Response struct {
	Status int       `json:"-"`
	Error  errorBody `json:"error"`
	Detail any       `json:"detail,omitempty"`
}

func NewResponse(status int, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  errorBody{Message: msg},
		Detail: detail,
	}
}

// AbortWithError records the original error on the gin context so the
// logging middleware can see it, then writes the public response.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, msg, detail)

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
