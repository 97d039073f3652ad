//go:build !unix

package main

import (
	"fmt"

	"github.com/icglue/regfile-generics/pkg/types"
)

func openMMIO(path string, base uint64, size, wordBytes int, kind string) (types.Device, []func() error, error) {
	return nil, nil, fmt.Errorf("--mmio requires a unix platform")
}
