// Package diag defines the diagnostic model shared by the lexer, the parser and
// the compilation session.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Note, Warning or Error.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Unit, Line, Column – filled by Resolve once the owning unit is known.
//
// Diagnostics are values: producers create them once and nobody mutates them
// afterwards. Bag.Resolve returns resolved copies in place of the raw ones
// before the bag is handed out.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. The parser
// and the lexer receive a Reporter through their Options; the compiler wires
// a BagReporter wrapped in Dedup for every unit it parses.
//
// Package diag does not format for terminals; rendering lives in
// internal/diagfmt.
package diag
