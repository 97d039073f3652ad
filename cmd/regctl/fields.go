package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/icglue/regfile-generics/regmap"
)

func init() {
	rootCmd.AddCommand(newFieldsCmd())
}

func newFieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields <map> [register]",
		Short: "List the fields of one or all registers",
		Long: `The fields command prints a table of the fields declared in a map:
bit range, access tag, reset value and description.

Example:
  regctl fields submodctrl.yaml
  regctl fields submodctrl.yaml config`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			register := ""
			if len(args) == 2 {
				register = args[1]
			}
			return runFields(args[0], register)
		},
	}
	return cmd
}

func runFields(path, register string) error {
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	var regs []regmap.RegisterDef
	if register == "" {
		regs = m.Registers
	} else {
		def := m.Register(register)
		if def == nil {
			return fmt.Errorf("map %q has no register %q", m.Name, register)
		}
		regs = []regmap.RegisterDef{*def}
	}

	if jsonOut {
		return printJSON(regs)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, r := range regs {
		wmask := "all"
		if r.WriteMask != nil {
			wmask = fmt.Sprintf("0x%x", uint64(*r.WriteMask))
		}
		printInfo("%s @ 0x%x (write mask %s)\n", r.Name, uint64(r.Addr), wmask)
		if quiet {
			continue
		}
		fmt.Fprintln(w, "  FIELD\tBITS\tACCESS\tRESET\tDESC")
		for _, f := range r.Fields {
			reset := "-"
			if f.Reset != nil {
				reset = fmt.Sprintf("0x%x", uint64(*f.Reset))
			}
			access := f.Access
			if access == "" {
				access = "-"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", f.Name, f.Bits, access, reset, f.Desc)
		}
		w.Flush()
	}
	return nil
}
