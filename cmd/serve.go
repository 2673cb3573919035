package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"stockscan/internal/api"
	"stockscan/internal/api/handler/v1handler"
	"stockscan/internal/camera"
	"stockscan/internal/config"
	"stockscan/internal/decoder"
	"stockscan/internal/session"
	"stockscan/pkg/logger"
	"stockscan/pkg/metrics"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, sess *session.Session) func(ctx context.Context) {
	server := api.NewServer(api.Deps{
		Deps: v1handler.Deps{Session: sess},
	}, api.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// closeSession releases the session, the lookup cache and the metrics
// provider. ctx bounds the shutdown and must outlive the signal context.
func closeSession(ctx context.Context, sess *session.Session, closeStock func(), mp shutdowner) {
	sess.Close(ctx)
	closeStock()
	if err := mp.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "could not shutdown metrics provider", zap.Error(err))
	}
}

func setupSession(ctx context.Context, cfg *config.Config) (*session.Session, func(context.Context)) {
	stock, closeStock := getStockClient(ctx, cfg)

	mp, err := metrics.NewPrometheusProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create metrics provider", zap.Error(err))
	}
	scanMetrics, err := metrics.NewScan(mp)
	if err != nil {
		logger.Fatal(ctx, "could not create scan metrics", zap.Error(err))
	}

	dec, err := decoder.New(decoder.WithFormats(cfg.Camera.Formats...))
	if err != nil {
		logger.Fatal(ctx, "could not create frame decoder", zap.Error(err))
	}

	deps := session.Deps{Decoder: dec, Stock: stock, Metrics: scanMetrics}
	if cfg.Camera.Dir != "" {
		deps.Camera = camera.NewDirDevice(cfg.Camera.Dir, cfg.Camera.FrameInterval,
			camera.WithMaxFramePixels(cfg.Camera.MaxFramePixels))
	} else {
		logger.Warn(ctx, "no capture device configured, only symbol and frame submission are available")
	}

	sess := session.New(deps, session.Options{LookupTimeout: cfg.StockAPI.LookupTimeout})
	logger.Info(ctx, "scan session created", zap.String("session", sess.ID()))

	return sess, func(shutdownCtx context.Context) {
		closeSession(shutdownCtx, sess, closeStock, mp)
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the scan station API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sess, cleanup := setupSession(ctx, cfg)

			if start, _ := cmd.Flags().GetBool("start-camera"); start && cfg.Camera.Dir != "" {
				if status, err := sess.StartCamera(ctx); err != nil {
					logger.Warn(ctx, "could not start camera", zap.Error(err), zap.String("message", status.Error))
				}
			}

			stopWebserver := setupServer(ctx, cfg, sess)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			cleanup(shutdownCtx)
		},
	}

	cmd.Flags().Bool("start-camera", true, "Start scanning as soon as the server is up")

	return cmd
}
