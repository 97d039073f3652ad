//go:build unix

package main

import (
	"fmt"

	"github.com/icglue/regfile-generics/mmio"
	"github.com/icglue/regfile-generics/pkg/types"
	"github.com/icglue/regfile-generics/rfdev"
)

// openMMIO maps the register window of a device file and wraps it in the
// requested device kind. The window covers [base, base+size).
func openMMIO(path string, base uint64, size, wordBytes int, kind string) (types.Device, []func() error, error) {
	region, err := mmio.Open(path, base, size, mmio.WithWordBytes(wordBytes))
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{region.Sync, region.Close}

	var dev types.Device
	switch kind {
	case "simple":
		dev, err = rfdev.NewSimple(region, rfdev.WithWordBytes(wordBytes))
	case "subword":
		dev, err = rfdev.NewSubword(region, rfdev.WithWordBytes(wordBytes))
	default:
		err = fmt.Errorf("unknown device kind %q (want simple or subword)", kind)
	}
	if err != nil {
		region.Close()
		return nil, nil, err
	}
	return dev, closers, nil
}
