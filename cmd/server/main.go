package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/anvil-tx/cardano"
	"github.com/AlexZinkM/anvil-tx/internal/api"
	"github.com/AlexZinkM/anvil-tx/internal/client"
	"github.com/AlexZinkM/anvil-tx/internal/config"
	"github.com/AlexZinkM/anvil-tx/internal/store"

	"go.uber.org/zap"
)

const pruneInterval = time.Minute

// @title        Anvil transaction service
// @version      1.0
// @description  Builds, inspects and submits Cardano transactions through the Anvil API.
// @BasePath     /
func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	if err := config.LoadKeyFile(); err != nil {
		return err
	}
	anvil, err := client.NewAnvilClientFromConfig()
	if err != nil {
		return err
	}

	st, err := store.NewBoltStore(config.GetStorePath(), logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := cardano.NewService(anvil, st, logger, cardano.OptionsFromConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.RunPruner(ctx, pruneInterval)

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("network", config.GetNetwork()),
			zap.String("api", config.GetAPIURL()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
