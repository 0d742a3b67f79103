package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/pkg/logging"
)

// watchCommand tails the event queue and prints one line per ledger change.
func watchCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Prints ledger events from the AMQP queue as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is required to watch events")
			}
			logging.Setup(cfg.LogLevel)

			client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("connect to AMQP: %w", err)
			}
			defer client.Close()

			err = client.Consume(cmd.Context(), printEvent(cmd.OutOrStdout()))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func printEvent(w io.Writer) events.Handler {
	return func(_ context.Context, e events.Event) error {
		household := e.HouseholdID
		if household == "" {
			household = "-"
		}
		_, err := fmt.Fprintf(w, "%s  %-19s  household=%s  id=%s  actor=%s  amount=%s\n",
			e.OccurredAt.UTC().Format(time.RFC3339), e.Type, household, e.EntityID, e.ActorID, e.Amount.StringFixed(2))
		return err
	}
}
