package endpoints

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/resolver"
)

// resolveTimeout bounds persistence reads for one on-demand resolution.
const resolveTimeout = 5 * time.Second

type ResolveController struct {
	resolver *resolver.Resolver
}

func ResolveModule(r *resolver.Resolver) api.Module {
	ctl := &ResolveController{resolver: r}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/displays/:id/resolve", ctl.resolve)
	})
}

// GET /api/tv/displays/:id/resolve
//
// Always answers with the ContentSource shape. A failed resolution keeps
// the shape (kind=none, reason="resolution error") but signals loudly with
// a 503 so clients can retry instead of rendering a guess.
func (r *ResolveController) resolve(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid display id"})
		return
	}

	resolveCtx, cancel := context.WithTimeout(ctx.Request.Context(), resolveTimeout)
	defer cancel()

	src, err := r.resolver.Resolve(resolveCtx, id)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, src)
		return
	}
	ctx.JSON(http.StatusOK, src)
}
