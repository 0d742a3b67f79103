package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
)

// splitCommand runs the split engine offline, without a database or server.
func splitCommand() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Computes a split locally and prints the shares",
	}
	cmd.PersistentFlags().StringVar(&amount, "amount", "", "expense amount, e.g. 10.01")
	_ = cmd.MarkPersistentFlagRequired("amount")

	cmd.AddCommand(&cobra.Command{
		Use:     "even PARTICIPANT...",
		Short:   "Splits the amount evenly; the last participant absorbs the remainder",
		Example: "  splitledger split even --amount 10.01 alice bob carol",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			shares, err := calculator.SplitEvenly(total, args)
			if err != nil {
				return err
			}
			return printShares(cmd.OutOrStdout(), shares)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "custom PARTICIPANT=AMOUNT...",
		Short:   "Validates custom shares against the amount and rounds them to cents",
		Example: "  splitledger split custom --amount 30 alice=20 bob=10",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			proposed, err := parseShares(args)
			if err != nil {
				return err
			}
			shares, err := calculator.SplitCustom(total, proposed)
			if err != nil {
				return err
			}
			return printShares(cmd.OutOrStdout(), shares)
		},
	})

	return cmd
}

func parseShares(args []string) ([]calculator.Share, error) {
	shares := make([]calculator.Share, len(args))
	for i, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("share %q must look like PARTICIPANT=AMOUNT", arg)
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("share %q: invalid amount: %w", arg, err)
		}
		shares[i] = calculator.Share{Participant: id, Amount: amount}
	}
	return shares, nil
}

func printShares(w io.Writer, shares []calculator.Share) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range shares {
		fmt.Fprintf(tw, "%s\t%s\n", s.Participant, s.Amount.StringFixed(2))
	}
	fmt.Fprintf(tw, "total\t%s\n", calculator.Sum(shares).StringFixed(2))
	return tw.Flush()
}
