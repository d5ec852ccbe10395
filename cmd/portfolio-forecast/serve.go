package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/portfolio-forecast/internal/config"
	"github.com/iwvelando/portfolio-forecast/internal/server"
	"github.com/iwvelando/portfolio-forecast/internal/store"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	serverConfigLocation string
	serveAddress         string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio API and dashboard state over HTTP",
	Long: `Starts the HTTP API. Saved items live in the SQLite database named by the
server configuration; the portfolio configuration, when given, supplies the
target, scenarios and simulation settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srvCfg, err := server.LoadConfig(serverConfigLocation)
		if err != nil {
			return err
		}
		if serveAddress != "" {
			srvCfg.Address = serveAddress
		}

		logger, err := initializeLogger(srvCfg.Logging, logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() {
			_ = logger.Sync()
		}()

		portfolioPath := srvCfg.PortfolioConfig
		if cmd.Flags().Changed("config") {
			portfolioPath = configLocation
		}
		return runServer(ctx, logger, srvCfg, portfolioPath)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	f.StringVar(&serveAddress, "address", "", "listen address override")

	rootCmd.AddCommand(serveCmd)
}

// loadServerPortfolio loads the portfolio configuration backing the
// dashboard. An empty path serves the demo portfolio.
func loadServerPortfolio(ctx context.Context, logger *zap.Logger, path string) (*config.Configuration, error) {
	conf := &config.Configuration{}
	if path != "" {
		loaded, err := config.LoadConfiguration(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
		}
		conf = loaded
	} else {
		conf.ApplyDefaults()
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	p, err := loadPortfolio(ctx, logger, conf)
	if err != nil {
		return nil, err
	}
	conf.Portfolio.Portfolio = p
	prepareConfiguration(logger, conf)
	return conf, nil
}

func runServer(ctx context.Context, logger *zap.Logger, srvCfg *server.Config, portfolioPath string) error {
	conf, err := loadServerPortfolio(ctx, logger, portfolioPath)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, srvCfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	handler, err := server.New(ctx, server.Options{
		Logger:         logger,
		MaxUploadSize:  srvCfg.UploadSizeBytes(),
		Version:        version,
		AllowedOrigins: srvCfg.AllowedOrigins,
		Store:          st,
		Configuration:  conf,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         srvCfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main.serve"),
			zap.String("address", srvCfg.Address),
			zap.String("database", srvCfg.DatabasePath),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	handler.Wait()
	return nil
}
