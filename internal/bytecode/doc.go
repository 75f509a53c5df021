// Package bytecode defines the class file model produced by the compiler and
// executed by the vm: a stack machine with per-class constant pools.
//
// Classes travel between compiler and vm as encoded artifacts
// (msgpack, optionally zstd compressed); Verify checks operands and stack
// discipline before a class is linked.
package bytecode
