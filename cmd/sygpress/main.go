// Command sygpress serves the management console for a laundry business:
// a locally run web UI over the sygpress backend API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/config"
	"github.com/follysitou/sygpress-console/internal/console"
	"github.com/follysitou/sygpress-console/internal/logging"
	"github.com/follysitou/sygpress-console/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.New("info").WithError(err).Error("load configuration")
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	state := session.NewStateFile(cfg.StatePath())
	store := session.NewStore(nil, state)

	client, err := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  store,
	})
	if err != nil {
		log.WithError(err).Error("create API client")
		os.Exit(1)
	}

	// The store authenticates through the client, and the client drops the
	// session when the backend rejects its token.
	store.SetBackend(client.Auth())
	client.OnAuthFailure(store.Invalidate)

	if err := store.Restore(); err != nil {
		log.WithError(err).Warn("restore persisted session")
	}

	srv, err := console.New(cfg, log, store, client)
	if err != nil {
		log.WithError(err).Error("build console")
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(map[string]interface{}{"addr": cfg.ListenAddr}).Info("console listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("serve console")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
