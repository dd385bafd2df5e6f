package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single discovery pass and exit",
	Run: func(_ *cobra.Command, _ []string) {
		runOnce()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce() {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := app.runner.Run(ctx)
	if err != nil {
		log2.Fatal("discovery run failed", zap.Error(err))
	}

	log2.Info("discovery run finished",
		zap.String("run_id", sum.RunID),
		zap.Int("fetched", sum.Fetched),
		zap.Int("duplicates", sum.Duplicates),
		zap.Int("accepted", sum.Accepted))
}
