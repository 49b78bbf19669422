// Package app wires the synthesis engine together for the CLI: it builds the
// kind catalog from the compiled-in modules, loads a parameter file, runs the
// built-in architecture against a fresh synthesis run, and writes the emitted
// document.
package app
