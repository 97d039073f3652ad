// Package rfdev implements the device side of register access: the transfer
// strategies that turn a masked register write into raw backend operations.
//
// # Strategies
//
// Three devices share one contract (types.Device) and differ only in how they
// realize a masked write:
//
//   - Word: every write is a full-word store. The caller guarantees the value
//     is complete; no masking, no read-modify-write.
//   - Simple: writes that would disturb protected writable bits are realized
//     as read-modify-write; everything else is a direct store.
//   - Subword: like Simple, but when an aligned sub-word store can cover all
//     changed bits without touching protected ones, that single store is
//     issued instead. The slot selection is exposed as PickSubword.
//
// Devices are constructed over a raw connection (types.WordConn or
// types.SubwordConn) supplied by the external collaborator, typically a bus
// driver or a simulator binding. WordConnFuncs and SubwordConnFuncs adapt
// plain functions to these contracts.
//
// # Simulation backends
//
// SimpleMem and SubwordMem are self-contained in-memory devices for tests,
// demos and tooling. Unbacked locations read as deterministic pseudo-random
// values, standing in for uninitialized hardware state, and both count their
// raw accesses.
package rfdev
