// Package vm loads compiled classes into an isolated Context and
// interprets their bytecode.
//
// Every Context owns its own class table, static storage and heap. Classes
// from the shared classpath are linked fresh into each Context, so statics
// written by one candidate are never observed by another. Loading never
// touches the filesystem: artifacts come straight from a compiler.Result.
//
// Execution is a plain frame-stack interpreter. Mutated programs loop and
// recurse without bound, so every run is guarded by a step budget, a call
// depth limit, an object allocation limit and the caller's context.
// Runtime faults surface as *VMError with a stable PanicCode and a
// backtrace of class, method and line.
package vm
