package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
	"github.com/mwakio197/Dbot-sub001/pkg/data/duckdb"
	"github.com/mwakio197/Dbot-sub001/pkg/data/mapper"
)

const dateLayout = "2006-01-02"

func newDescribeCmd() *cobra.Command {
	var (
		duckdbPath string
		from, to   string
	)

	cmd := &cobra.Command{
		Use:   "describe [contracts.jsonl]",
		Short: "Print the transaction summary of stored contracts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			switch {
			case duckdbPath != "" && len(args) == 0:
				fromTime, err := parseDate(from, time.Unix(0, 0).UTC())
				if err != nil {
					return err
				}
				toTime, err := parseDate(to, time.Now().UTC())
				if err != nil {
					return err
				}
				if to != "" {
					toTime = toTime.Add(24*time.Hour - time.Nanosecond)
				}
				return describeArchive(cmd.Context(), out, duckdbPath, fromTime, toTime)
			case duckdbPath == "" && len(args) == 1:
				return describeDump(out, args[0])
			default:
				return errors.New("expected either a contracts file or --duckdb")
			}
		},
	}

	cmd.Flags().StringVar(&duckdbPath, "duckdb", "", "duckdb archive to read instead of a contracts file")
	cmd.Flags().StringVar(&from, "from", "", "first sell date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last sell date (YYYY-MM-DD), defaults to now")
	return cmd
}

func describeDump(out io.Writer, path string) error {
	r := mapper.NewReader(path)
	if err := r.Open(); err != nil {
		return err
	}
	defer r.Close()

	return r.Each(func(_ int64, info common.ContractInfo) error {
		return printDetails(out, info)
	})
}

func describeArchive(ctx context.Context, out io.Writer, path string, from, to time.Time) error {
	r := duckdb.NewReader(path)
	if err := r.Connect(); err != nil {
		return err
	}
	defer r.Close()

	return r.LoadContracts(ctx, from, to, func(info common.ContractInfo) error {
		return printDetails(out, info)
	})
}

func printDetails(out io.Writer, info common.ContractInfo) error {
	d := contract.Summarize(contract.Enrich(info), contract.IsEnded)

	line := fmt.Sprintf("%d\t%s", info.ContractID, d.Description)
	if d.Ended {
		line += "\t" + d.Profit
		if d.ExitSpot != "" {
			line += "\t" + d.ExitSpot
		}
	}
	_, err := fmt.Fprintln(out, line)
	return err
}

func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
	}
	return t, nil
}
