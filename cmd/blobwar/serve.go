package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"blobwar/internal/adapters"
	engineDelivery "blobwar/internal/delivery/engine"
	watchDelivery "blobwar/internal/delivery/watch"
	repo "blobwar/internal/repository"
	engineuc "blobwar/internal/usecase/engine"
	"blobwar/internal/usecase/supervisor"
	engineClient "blobwar/microservices/repository"
)

type mainDeliveryHandler struct {
	engine *engineDelivery.EngineHandler
	watch  *watchDelivery.WatchHandler
}

func (h *mainDeliveryHandler) Router(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/move", h.engine.HandleMove)
	r.Get("/matches", h.engine.HandleMatches)
	r.Get("/ws/slot/{key}", h.watch.HandleSlot)
}

func serveCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve moves over HTTP and stream anytime slots over websockets",
		Action: func(c *cli.Context) (err error) {
			s, err := newSession(c, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var closers []func(context.Context) error
			defer func() {
				for _, closeFn := range closers {
					err = multierr.Append(err, closeFn(context.Background()))
				}
			}()

			var engine engineDelivery.MoveComputer
			if s.cfg.EngineGrpcAddr != "" {
				client, conn, err := engineClient.DialEngine(s.cfg.EngineGrpcAddr)
				if err != nil {
					return err
				}
				closers = append(closers, func(context.Context) error { return conn.Close() })
				engine = client
				log.Infof("forwarding moves to engine service at %s", s.cfg.EngineGrpcAddr)
			} else {
				sup, err := supervisor.NewSupervisor(s.cfg, s.cfgPath, log)
				if err != nil {
					return err
				}
				engine = engineuc.NewEngineUseCase(s.cfg.SearchWorkers, sup, log)
			}

			var matches engineDelivery.MatchLister
			if s.cfg.MongoUri != "" {
				mongo := adapters.NewAdapterMongo(s.cfg, log)
				if err := mongo.Init(ctx); err != nil {
					return err
				}
				closers = append(closers, mongo.Close)
				matches = repo.NewMatchRepository(log, mongo.Database)
			}

			openSlot := func(ctx context.Context, key string) (repo.Slot, error) {
				return repo.ConnectSharedSlot(ctx, s.cfg, key, log)
			}
			handlers := &mainDeliveryHandler{
				engine: engineDelivery.NewEngineHandler(log, engine, matches),
				watch:  watchDelivery.NewWatchHandler(log, openSlot),
			}
			r := chi.NewRouter()
			handlers.Router(r)

			srv := &http.Server{Addr: ":" + s.cfg.ServerPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				log.Info("received shutdown signal")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Infof("server is running on port %s", s.cfg.ServerPort)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
