package utils

import "github.com/gin-gonic/gin"

// ErrorBody is the machine-readable part of a failed response. Code is a
// stable "error.*" key the frontend translates; Message is shown as-is.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func JSONSuccess(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope{Success: true, Data: data})
}

func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Envelope{Error: &ErrorBody{Code: errCode, Message: message}})
}

// JSONPartial reports a request that failed after some of its work was kept.
func JSONPartial(c *gin.Context, code int, data any, errCode, message string) {
	c.JSON(code, Envelope{Data: data, Error: &ErrorBody{Code: errCode, Message: message}})
}
