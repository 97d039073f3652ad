package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/icglue/regfile-generics/trace"
)

func init() {
	rootCmd.AddCommand(newTraceCmd())
}

func newTraceCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Decode a recorded access trace",
		Long: `The trace command decodes a CBOR access trace written with --trace-out
and prints one line per event, or the full event records as JSON.

Example:
  regctl get submodctrl.yaml config --trace-out access.trace
  regctl trace access.trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args[0], tail)
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 0, "Print only the last N events (0 for all)")
	return cmd
}

func runTrace(path string, tail int) error {
	r, err := trace.NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	// The stream has no length header, so tailing still decodes everything.
	var events []trace.Event
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		events = append(events, e)
	}
	if tail > 0 && len(events) > tail {
		events = events[len(events)-tail:]
	}

	if jsonOut {
		return printJSON(events)
	}
	for _, e := range events {
		printInfo("%s\n", e)
	}
	printVerbose("%d event(s)\n", len(events))
	return nil
}
