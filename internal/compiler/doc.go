// Package compiler is the in-memory compilation session for the Java
// subset accepted by mend. Compile takes source units, never touches the
// filesystem and returns diagnostics plus one encoded bytecode artifact
// per class.
//
// Phases: parse, declare (classes and member signatures), check (type
// checking fused with code generation per method body) and encode.
// Artifacts are produced only when no phase reported an error.
package compiler
