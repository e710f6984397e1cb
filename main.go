package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bank-manager-with-go/config"
	"bank-manager-with-go/manager"
	"bank-manager-with-go/session"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New()
	logger.SetOutput(os.Stderr)

	if err := rootCommand(ctx, logger).ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithContext(ctx).Fatalf("failed to execute root command: %v", err)
	}
}

func rootCommand(ctx context.Context, logger *log.Logger) *cobra.Command {
	cfg := config.Default()
	var logLevel string

	root := &cobra.Command{
		Use:           "bank-manager",
		Short:         "Bank branch simulation with deposit and loan tellers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "log level")
			}
			cfg.LogLevel = level
			return run(ctx, cfg, logger)
		},
	}

	flags := root.Flags()
	flags.StringVar(&logLevel, "log-level", cfg.LogLevel.String(), "log level")
	flags.IntVar(&cfg.Bank.MinCustomers, "min-customers", cfg.Bank.MinCustomers, "fewest customers per run")
	flags.IntVar(&cfg.Bank.MaxCustomers, "max-customers", cfg.Bank.MaxCustomers, "most customers per run")
	flags.Uint64Var(&cfg.Bank.Seed, "seed", cfg.Bank.Seed, "customer generator seed, 0 for random")
	flags.IntVar(&cfg.Deposit.Tellers, "deposit-tellers", cfg.Deposit.Tellers, "deposit tellers working at once")
	flags.DurationVar(&cfg.Deposit.Duration, "deposit-duration", cfg.Deposit.Duration, "time to serve a deposit customer")
	flags.DurationVar(&cfg.Deposit.Jitter, "deposit-jitter", cfg.Deposit.Jitter, "random spread of the deposit service time")
	flags.IntVar(&cfg.Loan.Tellers, "loan-tellers", cfg.Loan.Tellers, "loan tellers working at once")
	flags.DurationVar(&cfg.Loan.Duration, "loan-duration", cfg.Loan.Duration, "time to serve a loan customer")
	flags.DurationVar(&cfg.Loan.Jitter, "loan-jitter", cfg.Loan.Jitter, "random spread of the loan service time")
	flags.StringVar(&cfg.API.Address, "api-address", cfg.API.Address, "status api listen address")
	flags.IntVar(&cfg.API.Port, "api-port", cfg.API.Port, "status api port, 0 disables the api")

	return root
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	console := session.NewConsole(os.Stdout)
	m, err := manager.New(cfg, logger, manager.WithHooks(console.Hooks()))
	if err != nil {
		return errors.Wrap(err, "create manager")
	}
	gen := session.NewGenerator(cfg.Bank.MinCustomers, cfg.Bank.MaxCustomers, cfg.Bank.Seed)
	s := session.New(m, gen, os.Stdin, console, logger)

	if cfg.API.Port == 0 {
		return s.Run(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	apiCtx, stopApi := context.WithCancel(gctx)
	g.Go(func() error {
		return manager.NewApi(cfg.API.Address, cfg.API.Port, m, logger).Start(apiCtx)
	})
	g.Go(func() error {
		defer stopApi()
		return s.Run(gctx)
	})
	return g.Wait()
}
