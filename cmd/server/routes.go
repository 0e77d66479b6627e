package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	adminapi "github.com/crxwnd/signage-sub000/internal/http/api/admin/endpoints"
	tvapi "github.com/crxwnd/signage-sub000/internal/http/api/tv/endpoints"
	"github.com/crxwnd/signage-sub000/internal/redis"
	"github.com/crxwnd/signage-sub000/internal/resolver"
	"github.com/crxwnd/signage-sub000/internal/syncgroup"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(
	r *gin.Engine,
	store db.Store,
	runtime *syncgroup.RuntimeStore,
	res *resolver.Resolver,
	presence *redis.Presence,
) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
	},
		adminapi.DisplayModule(store, presence),
		adminapi.AlertModule(store),
		adminapi.ScheduleModule(store),
		adminapi.SyncGroupModule(store, runtime),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		tvapi.ResolveModule(res),
		tvapi.SocketModule(store, runtime, presence),
	)
}
