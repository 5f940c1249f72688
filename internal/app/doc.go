// Package app wires the generator together: it loads declaration files,
// builds the selected model and writes the emitted Python module.
package app
