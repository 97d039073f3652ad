// Package types defines the shared contracts of the register-file toolkit:
// typed errors with stable categories, the non-fatal warning channel, and the
// Device interface that connects the value-tracking engine to a transfer
// backend.
//
// This package only exposes interfaces and core types. The regfile package
// implements the value engine on top of them, and the rfdev package provides
// the Device implementations (word, simple, subword, in-memory).
//
// Design goals:
//   - Typed errors with stable categories (lookup/argument/seal/bounds).
//   - Warnings never abort an operation; they are routed to a Handler and
//     remain observable in tests via Report.
//   - Backend errors propagate unwrapped in errors.Is terms; the core never
//     retries.
//
// This package has no dependencies beyond the standard library.
package types
