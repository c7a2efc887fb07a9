// Package signal provides parameterized control-pulse envelopes.
//
// Each envelope implements [quantum.Signal]: the count/names/values/bind
// quadruple consumed by optimizers through the device binding interface,
// plus evaluation and the gradient-integration primitives that fold the
// evolution engine's gradient signals into per-parameter derivatives.
//
//   - [Constant]: fixed complex amplitude
//   - [Polynomial]: real polynomial in t
//   - [Windowed]: piecewise-constant complex amplitude over uniform windows
package signal
