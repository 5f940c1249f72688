// Package gosymgen provides the deterministic symbolic kernel used to
// generate numeric code from symbolic models.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Deterministic simplification and stable output
//   - Shaped expression arrays for vector-valued model functions
//   - Partial derivatives for every function the printers know how to emit
//
// The model layer lives in the subpackages: variable (typed symbol
// arrays), function (symbolic functions, derivatives and sparse
// extraction), printer (expression to source text), model (the function
// registry and class emitter), compiled and param (Go-side evaluation
// and parameter binding) and declfile (HCL model declarations).
package gosymgen
