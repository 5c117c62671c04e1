// Package response 统一 HTTP JSON 响应格式，错误体为 {"error": "..."}
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success 200 返回数据
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 201 返回新建的资源
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 返回一条提示信息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// ErrorWithStatus 返回错误并终止后续 handler
func ErrorWithStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// InternalError 500，不向客户端暴露内部错误
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	ErrorWithStatus(c, http.StatusInternalServerError, "internal server error")
}
