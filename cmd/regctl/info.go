package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <map>",
		Short: "Summarize a register map",
		Long: `The info command loads a register map and reports its name, base
address, word size and register inventory.

Example:
  regctl info submodctrl.yaml
  regctl info listing.rf --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	return cmd
}

func runInfo(path string) error {
	printVerbose("Loading map: %s\n", path)
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	fieldCount := 0
	for _, r := range m.Registers {
		fieldCount += len(r.Fields)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"name":       m.Name,
			"base_addr":  fmt.Sprintf("0x%x", uint64(m.BaseAddr)),
			"word_bytes": m.WordBytes,
			"registers":  len(m.Registers),
			"fields":     fieldCount,
		})
	}

	printInfo("Register map: %s\n", m.Name)
	printInfo("  File: %s\n", path)
	printInfo("  Base address: 0x%x\n", uint64(m.BaseAddr))
	if m.WordBytes != 0 {
		printInfo("  Word size: %d bytes\n", m.WordBytes)
	}
	printInfo("  Registers: %d\n", len(m.Registers))
	printInfo("  Fields: %d\n", fieldCount)
	return nil
}
