package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/vlasovdm/taskdeck/backend/internal/auth/http"
	"github.com/vlasovdm/taskdeck/backend/internal/common/bootstrap"
	commonhttp "github.com/vlasovdm/taskdeck/backend/internal/common/http"
	"github.com/vlasovdm/taskdeck/backend/internal/common/jwtverify"
	srv "github.com/vlasovdm/taskdeck/backend/internal/common/server"
	"github.com/vlasovdm/taskdeck/backend/internal/push/cleanup"
	pushhttp "github.com/vlasovdm/taskdeck/backend/internal/push/http"
	"github.com/vlasovdm/taskdeck/backend/web"
)

func main() {
	app, err := bootstrap.NewApp()
	if err != nil {
		os.Stderr.WriteString("failed to bootstrap: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := app.Log
	cfg := app.Config

	defer app.Pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cleanup.StartSubscriptionCleanup(ctx, app.PushRepo, log)

	authHandler := authhttp.NewHandler(app.AuthService, cfg.RequestTimeout, log)
	pushHandler := pushhttp.NewHandler(app.PushService, app.Dispatcher, cfg.RequestTimeout, log)
	bearerAuth := jwtverify.Middleware(cfg.JWTSecret, log)

	mux := http.NewServeMux()
	authHandler.Register(mux, bearerAuth)
	pushHandler.Register(mux, bearerAuth)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/sw.js", web.ServiceWorkerHandler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForPath(path)(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("taskdeck service: stopping cleanup goroutine")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "taskdeck", shutdownHooks)
}
