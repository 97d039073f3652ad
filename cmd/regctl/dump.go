package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	var flags deviceFlags
	cmd := &cobra.Command{
		Use:   "dump <map>",
		Short: "Read every register and print the values",
		Long: `The dump command reads all registers in one pass, one device read per
register, and prints the values with their field decomposition.

Example:
  regctl dump submodctrl.yaml --mmio /dev/uio0
  regctl dump submodctrl.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0], &flags)
		},
	}
	addDeviceFlags(cmd, &flags)
	return cmd
}

func runDump(path string, flags *deviceFlags) error {
	rf, closer, err := openFile(path, flags)
	if err != nil {
		return err
	}
	defer closer()

	type regDump struct {
		Register string            `json:"register"`
		Address  string            `json:"address"`
		Value    string            `json:"value"`
		Fields   map[string]string `json:"fields,omitempty"`
	}

	var dumps []regDump
	for _, r := range rf.Registers() {
		snap, err := r.ReadSnapshot()
		if err != nil {
			return fmt.Errorf("register %q: %w", r.Name(), err)
		}
		fields := make(map[string]string, len(snap.Fields()))
		for name, v := range snap.Fields() {
			fields[name] = fmt.Sprintf("0x%x", v)
		}
		dumps = append(dumps, regDump{
			Register: r.Name(),
			Address:  fmt.Sprintf("0x%x", r.Address()),
			Value:    fmt.Sprintf("0x%x", snap.Value()),
			Fields:   fields,
		})
	}

	if jsonOut {
		return printJSON(dumps)
	}

	printInfo("%s @ 0x%x: %d registers\n", rf.Name(), rf.BaseAddr(), len(dumps))
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  REGISTER\tADDR\tVALUE")
	for _, d := range dumps {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", d.Register, d.Address, d.Value)
	}
	w.Flush()
	if verbose {
		for _, r := range rf.Registers() {
			printVerbose("%s\n", r)
		}
	}
	return nil
}
