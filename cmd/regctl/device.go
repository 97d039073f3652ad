package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icglue/regfile-generics/pkg/types"
	"github.com/icglue/regfile-generics/regfile"
	"github.com/icglue/regfile-generics/regmap"
	"github.com/icglue/regfile-generics/rfdev"
	"github.com/icglue/regfile-generics/trace"
)

// loadMap reads a register map, picking the decoder from the file extension:
// .rf and .txt are vendor listings, everything else is YAML (JSON maps work
// through the YAML decoder).
func loadMap(path string) (*regmap.Map, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rf", ".txt":
		return regmap.LoadTextFile(path)
	default:
		return regmap.LoadFile(path)
	}
}

// deviceFlags selects the access backend for commands that touch registers.
type deviceFlags struct {
	kind     string
	seed     uint64
	mmio     string
	traceOut string
}

func addDeviceFlags(cmd *cobra.Command, f *deviceFlags) {
	cmd.Flags().StringVar(&f.kind, "device", "simple",
		"Device kind: simple (read-modify-write) or subword (narrow stores)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0,
		"Seed for simulated read backfill")
	cmd.Flags().StringVar(&f.mmio, "mmio", "",
		"Memory-mapped device file backing the registers (default: in-memory simulation)")
	cmd.Flags().StringVar(&f.traceOut, "trace-out", "",
		"Record every device access to a CBOR trace file")
}

// open builds the device for the map. The returned closer flushes and
// releases the backend and any trace sink.
func (f *deviceFlags) open(m *regmap.Map) (types.Device, func() error, error) {
	wordBytes := m.WordBytes
	if wordBytes == 0 {
		wordBytes = rfdev.DefaultWordBytes
	}

	var (
		dev     types.Device
		closers []func() error
		err     error
	)
	if f.mmio != "" {
		dev, closers, err = openMMIO(f.mmio, uint64(m.BaseAddr), windowSize(m, wordBytes), wordBytes, f.kind)
	} else {
		dev, err = f.openSim(wordBytes)
	}
	if err != nil {
		return nil, nil, err
	}

	if f.traceOut != "" {
		sink, err := trace.NewFileSink(f.traceOut)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, sink.Close)
		dev = trace.Wrap(dev, sink)
	}

	return dev, func() error {
		var firstErr error
		for _, c := range closers {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}, nil
}

func (f *deviceFlags) openSim(wordBytes int) (types.Device, error) {
	opts := []rfdev.Option{rfdev.WithWordBytes(wordBytes), rfdev.WithSeed(f.seed)}
	switch f.kind {
	case "simple":
		return rfdev.NewSimpleMem(opts...)
	case "subword":
		return rfdev.NewSubwordMem(opts...)
	default:
		return nil, fmt.Errorf("unknown device kind %q (want simple or subword)", f.kind)
	}
}

// windowSize returns the byte size of the address window the map covers,
// relative to its base address.
func windowSize(m *regmap.Map, wordBytes int) int {
	end := uint64(wordBytes)
	for _, r := range m.Registers {
		if regEnd := uint64(r.Addr) + uint64(wordBytes); regEnd > end {
			end = regEnd
		}
	}
	return int(end)
}

// openFile loads a map and builds the live register file over the selected
// device. The closer must run after the last access.
func openFile(path string, f *deviceFlags) (*regfile.Regfile, func() error, error) {
	m, err := loadMap(path)
	if err != nil {
		return nil, nil, err
	}
	dev, closer, err := f.open(m)
	if err != nil {
		return nil, nil, err
	}
	rf, err := m.Build(dev)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return rf, closer, nil
}
