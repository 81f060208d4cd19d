package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应体，与旧版站点前端约定的 {error} 结构保持一致。
type ErrorResponse struct {
	Error string `json:"error"`
}

// ClientError 客户端错误（400）
func ClientError(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// ServerError 服务端错误（500）
func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
}

// PayloadTooLarge 请求体超限（413）
func PayloadTooLarge(c *gin.Context, msg string) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: msg})
}
