package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icglue/regfile-generics/regfile"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	var flags deviceFlags
	cmd := &cobra.Command{
		Use:   "set <map> <register> <value | field=value...>",
		Short: "Write a register",
		Long: `The set command writes a register in one transaction. A bare integer
writes the whole word through the write mask; field=value pairs compose a
mapping write (unset writable fields are written as zero).

Example:
  regctl set submodctrl.yaml config 0x116
  regctl set submodctrl.yaml config cfg=0x16 en=1`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1], args[2:], &flags)
		},
	}
	addDeviceFlags(cmd, &flags)
	return cmd
}

func runSet(path, register string, values []string, flags *deviceFlags) error {
	rf, closer, err := openFile(path, flags)
	if err != nil {
		return err
	}
	defer closer()

	r, err := rf.Register(register)
	if err != nil {
		return err
	}

	if len(values) == 1 && !strings.Contains(values[0], "=") {
		v, err := strconv.ParseUint(values[0], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q", values[0])
		}
		if err := r.Write(v); err != nil {
			return err
		}
	} else {
		fv, err := parseAssignments(values)
		if err != nil {
			return err
		}
		if err := r.Write(fv); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(map[string]any{
			"register": register,
			"value":    fmt.Sprintf("0x%x", r.Mirrored()),
		})
	}
	printInfo("%s\n", r)
	return nil
}

// parseAssignments turns field=value arguments into a mapping write.
func parseAssignments(args []string) (regfile.FieldValues, error) {
	fv := make(regfile.FieldValues, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for field %q: %q", name, value)
		}
		fv[name] = v
	}
	return fv, nil
}
