// Package errors provides coded diagnostics for the reactive runtime and its
// tooling.
//
// Every diagnostic has a code (for example "R001") that maps to a short
// message, a longer explanation and, where it helps, a suggestion. The
// runtime logs these as development warnings; the CLI and devtools return
// them as errors.
//
// # Categories
//
//   - runtime: misuse of reactive values (wrapping primitives, writing readonly values)
//   - config: configuration files that cannot be read or are invalid
//   - devtools: inspection server and trace archive failures
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("C002").
//	    WithDetail(`log.level "loud" is not one of debug, info, warn, error`)
//	fmt.Println(err.Format())
package errors
