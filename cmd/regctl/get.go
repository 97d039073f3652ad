package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	var flags deviceFlags
	cmd := &cobra.Command{
		Use:   "get <map> <register> [field]",
		Short: "Read a register or a single field",
		Long: `The get command issues one device read and prints the register value
with its field decomposition, or a single field value.

Example:
  regctl get submodctrl.yaml config
  regctl get submodctrl.yaml config status --mmio /dev/uio0`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := ""
			if len(args) == 3 {
				field = args[2]
			}
			return runGet(args[0], args[1], field, &flags)
		},
	}
	addDeviceFlags(cmd, &flags)
	return cmd
}

func runGet(path, register, field string, flags *deviceFlags) error {
	rf, closer, err := openFile(path, flags)
	if err != nil {
		return err
	}
	defer closer()

	r, err := rf.Register(register)
	if err != nil {
		return err
	}

	if field != "" {
		v, err := r.ReadField(field)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(map[string]any{
				"register": register,
				"field":    field,
				"value":    fmt.Sprintf("0x%x", v),
			})
		}
		printInfo("0x%x\n", v)
		return nil
	}

	snap, err := r.ReadSnapshot()
	if err != nil {
		return err
	}
	if jsonOut {
		fields := make(map[string]string, len(snap.Fields()))
		for name, v := range snap.Fields() {
			fields[name] = fmt.Sprintf("0x%x", v)
		}
		return printJSON(map[string]any{
			"register": register,
			"address":  fmt.Sprintf("0x%x", r.Address()),
			"value":    fmt.Sprintf("0x%x", snap.Value()),
			"fields":   fields,
		})
	}
	printInfo("%s\n", snap)
	return nil
}
