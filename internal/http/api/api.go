package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller wraps the gin group a module mounts its endpoints on.
type Controller struct {
	*gin.RouterGroup
}

type Error struct {
	Code    int
	Message string
}

// HandlerFunc is the shape every endpoint handler takes: return a body or
// an Error, never write to the context directly.
type HandlerFunc func(ctx *gin.Context) (any, *Error)

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}
