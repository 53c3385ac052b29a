package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/adapter/idgen"
	"github.com/iho/lpledger/internal/app"
	"github.com/iho/lpledger/internal/infrastructure/config"
	"github.com/iho/lpledger/internal/infrastructure/logger"
	"github.com/iho/lpledger/internal/usecase"
)

func main() {
	if err := newRootCmd(connect).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect builds the use cases from environment configuration. Logs go to
// stderr so command output stays clean.
func connect(ctx context.Context) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, os.Stderr).
		Level(zerolog.WarnLevel)

	components, err := app.Build(ctx, cfg, log, nil)
	if err != nil {
		return nil, err
	}

	ids := idgen.NewULIDGenerator()
	session := usecase.NewLedgerSession(components.Ledger, ids, log, nil)

	return &services{
		reports: usecase.NewReportUseCase(session, ids, log, nil),
		funds:   usecase.NewFundsUseCase(components.Transactions, ids, log, nil),
		keys:    idgen.NewUUIDGenerator(),
		close:   components.Close,
	}, nil
}
