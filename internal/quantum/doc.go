// Package quantum provides core primitives for quantum state simulation.
//
// The package defines the fundamental types shared by the device, operator,
// and evolution layers:
//
//   - [State]: complex amplitude vector over the product Hilbert space
//   - [Signal]: parameterized complex control envelope Ω(t)
//   - [Observer]: per-step callback invoked during evolutions
//
// # Conventions
//
// States are column vectors in the occupation (Fock) basis unless a basis is
// stated explicitly. Amplitude index order follows the mixed-radix convention
// with qubit 0 as the most significant digit.
//
// # Thread Safety
//
// States are plain slices and carry no locking. Evolution engines are NOT
// thread-safe; for parallel sweeps use the ensemble runner in the evolve
// package, which gives each worker its own engine.
package quantum
