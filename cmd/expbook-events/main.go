package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"expbook/internal/amqp"
	"expbook/internal/cli"
	applog "expbook/internal/log"
)

// expbook-events prints every expense change published by the server.
func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentEvents)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Consuming expense events",
			"queue", cfg.AMQPQueue,
			applog.FieldOperation, applog.OpConsume)
		return client.ConsumeWithReconnect(gctx, func(ctx context.Context, ev *amqp.ExpenseEvent) error {
			fields := applog.NewFields().
				WithOperation(applog.OpConsume).
				WithExpense(ev.ExpenseID, ev.Name, ev.Amount.String(), ev.Date)
			fields[applog.FieldEventType] = string(ev.Type)
			logger.InfoContext(ctx, "Expense changed", fields.ToSlice()...)
			return nil
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumer stopped", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Event consumer stopped gracefully")
}
