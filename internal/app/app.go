// Package app wires configuration, the database, the lifecycle engine, and
// the HTTP surface into a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/zh1gn/FoundItBot/internal/config"
	"github.com/zh1gn/FoundItBot/internal/db"
	"github.com/zh1gn/FoundItBot/internal/lifecycle"
	"github.com/zh1gn/FoundItBot/internal/notify"
	"github.com/zh1gn/FoundItBot/internal/settings"
	"github.com/zh1gn/FoundItBot/internal/store"
	"github.com/zh1gn/FoundItBot/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations, then returns. Used by the
// -migrate flag for deployments that separate schema changes from serving.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the service and blocks until the context is canceled or
// the HTTP server fails. Migration failure aborts before listening.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	if strings.TrimSpace(cfg.PaymentDetails) == "" {
		cfg.PaymentDetails = settings.NewService(conn).PaymentDetails(ctx)
	}

	st := store.New(conn)
	engine := lifecycle.New(st, cfg, notify.LogDispatcher{})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	web.RegisterRoutes(router, conn, st, engine, cfg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":    cfg.Port,
			"dialect": db.DialectName(conn),
		}).Info("server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", errServe)
	}
}
