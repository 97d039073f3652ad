package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icglue/regfile-generics/cmd/rfexplorer/logger"
)

func main() {
	args := os.Args[1:]
	debugMode := false
	deviceKind := "simple"
	var seed uint64

	// Extract flags, leaving positional args
	filteredArgs := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--debug", "-d":
			debugMode = true
		case "--device":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --device needs a value (simple or subword)")
				os.Exit(1)
			}
			i++
			deviceKind = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --seed needs an integer value")
				os.Exit(1)
			}
			i++
			v, err := strconv.ParseUint(args[i], 0, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid seed %q\n", args[i])
				os.Exit(1)
			}
			seed = v
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
		fmt.Printf("rfexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	mapPath := filteredArgs[0]
	logger.Info("starting rfexplorer", "path", mapPath, "device", deviceKind, "debug", debugMode)

	if _, err := os.Stat(mapPath); err != nil {
		logger.Error("map file not found", "path", mapPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: map file not found: %s\n", mapPath)
		os.Exit(1)
	}

	m := NewModel(mapPath, deviceKind, seed)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.Warn("error closing resources", "error", err)
		}
	}

	logger.Info("rfexplorer exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: rfexplorer [options] <map-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'rfexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("rfexplorer - Interactive TUI for Hardware Register Maps")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  rfexplorer [options] <map-file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI over a register map (YAML or")
	fmt.Println("  vendor listing format), backed by an in-memory simulation device.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Split-pane layout (register list + field decomposition)")
	fmt.Println("    - Keyboard navigation (vim-style keys supported)")
	fmt.Println("    - Live register filtering (/)")
	fmt.Println("    - Read, write and reset registers and single fields")
	fmt.Println("    - Pending-bit staging with one-transaction update (u)")
	fmt.Println("    - Register detail view (Enter)")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Navigate up/down")
	fmt.Println("    Tab         Switch between register and field panes")
	fmt.Println("    Enter       Open register detail")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug      Enable debug logging to ~/.rfexplorer/logs/")
	fmt.Println("      --device K   Simulation device kind: simple or subword")
	fmt.Println("      --seed N     Seed for the simulated read backfill")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  rfexplorer submodctrl.yaml")
	fmt.Println("  rfexplorer listing.rf --device subword")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'regctl' command instead.")
}
