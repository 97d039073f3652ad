package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icglue/regfile-generics/pkg/types"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <map>",
		Short: "Check a register map for faults",
		Long: `The validate command checks a map for structural faults (duplicate
names, overlapping fields, bad bit ranges, unknown access tags) and lossy
values (reset literals wider than their field, write masks wider than the
word). All findings are reported; the command fails if any structural fault
was found.

Example:
  regctl validate submodctrl.yaml
  regctl validate listing.rf --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on any finding, not only structural faults")
	return cmd
}

func runValidate(path string, strict bool) error {
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	rep := m.Validate()
	if jsonOut {
		out, err := rep.FormatJSON()
		if err != nil {
			return err
		}
		printInfo("%s\n", out)
	} else {
		printInfo("%s", rep.FormatText())
	}

	faults := rep.Count(types.WarnInvalidSpec)
	if faults > 0 {
		return fmt.Errorf("map %q has %d structural fault(s)", m.Name, faults)
	}
	if strict && rep.HasAny() {
		return fmt.Errorf("map %q has %d finding(s)", m.Name, rep.Len())
	}
	printVerbose("Map %q is valid.\n", m.Name)
	return nil
}
