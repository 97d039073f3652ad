package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <map>",
		Short: "Re-emit a register map as YAML or JSON",
		Long: `The export command loads a map in any supported format and writes it
back out normalized. Use it to convert vendor listings to YAML, or maps to
JSON for other tooling.

Example:
  regctl export listing.rf --format yaml
  regctl export submodctrl.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	return cmd
}

func runExport(path, format string) error {
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		out, err := m.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	case "json":
		return m.EncodeJSON(os.Stdout)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
