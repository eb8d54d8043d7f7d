package config

import (
	"context"
	"fmt"
	"io"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"LS_PORT,default=8080"`
	DBDriver   string `env:"LS_DB_DRIVER,default=sqlite"`
	DBPath     string `env:"LS_DB_PATH,default=/data/loanserve.db"`
	DBHost     string `env:"LS_DB_HOST,default=127.0.0.1:3306"`
	DBName     string `env:"LS_DB_NAME,default=LoanApprovalDB"`
	DBUser     string `env:"LS_DB_USER,default=loanserve"`
	DBPassword string `env:"LS_DB_PASSWORD"`
	LogLevel   string `env:"LS_LOG_LEVEL,default=info"`
	LogPath    string `env:"LS_LOG_PATH"`

	HistoryDefaultLimit int `env:"LS_HISTORY_DEFAULT_LIMIT,default=10"`
	HistoryMaxLimit     int `env:"LS_HISTORY_MAX_LIMIT,default=500"`

	TrainSamples   int   `env:"LS_TRAIN_SAMPLES,default=500"`
	TrainSeed      int64 `env:"LS_TRAIN_SEED,default=42"`
	HoldoutSamples int   `env:"LS_HOLDOUT_SAMPLES,default=200"`
}

func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	return &cfg, nil
}

func WriteHelp(w io.Writer, version string) {
	fmt.Fprintf(w, "loanserve %s\n\n", version)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  LS_PORT=8080")
	fmt.Fprintln(w, "  LS_DB_DRIVER=sqlite            (sqlite|mysql)")
	fmt.Fprintln(w, "  LS_DB_PATH=/data/loanserve.db  (sqlite only)")
	fmt.Fprintln(w, "  LS_DB_HOST=127.0.0.1:3306      (mysql only)")
	fmt.Fprintln(w, "  LS_DB_NAME=LoanApprovalDB")
	fmt.Fprintln(w, "  LS_DB_USER=loanserve")
	fmt.Fprintln(w, "  LS_DB_PASSWORD=")
	fmt.Fprintln(w, "  LS_LOG_LEVEL=info")
	fmt.Fprintln(w, "  LS_LOG_PATH=")
	fmt.Fprintln(w, "  LS_HISTORY_DEFAULT_LIMIT=10")
	fmt.Fprintln(w, "  LS_HISTORY_MAX_LIMIT=500")
	fmt.Fprintln(w, "  LS_TRAIN_SAMPLES=500")
	fmt.Fprintln(w, "  LS_TRAIN_SEED=42")
	fmt.Fprintln(w, "  LS_HOLDOUT_SAMPLES=200")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --help")
	fmt.Fprintln(w, "  --version")
}
