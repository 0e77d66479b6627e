package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/redis"
	"github.com/crxwnd/signage-sub000/internal/resolver"
	"github.com/crxwnd/signage-sub000/internal/syncgroup"
)

func main() {
	env := LoadEnvironment()

	conn, err := db.Init(env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}
	if err := db.RunMigrations(conn, env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}
	store := db.NewStore(conn)

	publisher, err := events.NewMQTTPublisher(env.MQTTBrokerURL, env.MQTTClientID)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt init failed")
	}
	defer publisher.Close()

	presence := redis.NewPresence(env.RedisAddress, env.RedisUsername, env.RedisPassword, env.PresenceTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Runtime groups are rebuilt stopped from persisted config; playback
	// state does not survive a restart.
	runtime := syncgroup.NewRuntimeStore(publisher, nil)
	groups, err := store.ListSyncGroups(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("loading sync group config failed")
	}
	for _, cfg := range groups {
		if err := runtime.CreateGroup(cfg); err != nil {
			log.Error().Err(err).Int("group_id", cfg.ID).Msg("skipping sync group")
		}
	}

	res := resolver.New(store, runtime)

	ticker := syncgroup.NewTicker(runtime, publisher, env.TickInterval)
	checker := resolver.NewChecker(res, store, publisher, env.CheckInterval)
	go ticker.Run(ctx)
	go checker.Run(ctx)

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, store, runtime, res, presence)

	srv := &http.Server{Addr: env.ServerAddress, Handler: r}
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
