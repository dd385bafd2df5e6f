package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/discovery"
	"github.com/ajsalpv/Job-Applying/internal/httpapi"
	"github.com/ajsalpv/Job-Applying/internal/logger"
	"github.com/ajsalpv/Job-Applying/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the HTTP API until interrupted",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("no-scheduler", false, "start with the periodic scheduler stopped")
	viper.BindPFlag("no-scheduler", serveCmd.Flags().Lookup("no-scheduler"))
}

func serve() {
	log2, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log2.Fatal("loading config", zap.Error(err))
	}

	app, err := buildApp(cfg, log2)
	if err != nil {
		log2.Fatal("wiring pipeline", zap.Error(err))
	}
	defer app.Close()

	sched := scheduler.New(cfg.Interval(), cfg.Grace(), func(ctx context.Context) error {
		_, err := app.runner.Run(ctx)
		if errors.Is(err, discovery.ErrRunInProgress) {
			return nil
		}
		return err
	}, log2)

	if !viper.GetBool("no-scheduler") {
		sched.Start()
	}

	mux := httpapi.NewMux(httpapi.Deps{
		Runner:    app.runner,
		Sup:       app.sup,
		Scheduler: sched,
		Listings:  app.snk,
		Hub:       app.hub,
		Sources:   cfg.SourceNames(),
		Log:       log2,
	})
	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover(log2),
		httpapi.AccessLog(log2),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log2.Info("http api listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log2.Fatal("http server failed", zap.Error(err))
		}
	}

	log2.Info("shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log2.Error("http shutdown", zap.Error(err))
	}
}
