// Package fuzztests houses Go fuzz harnesses for the candidate pipeline
// (source -> lexer -> parser -> compiler, and tree diff). Its goal is to
// guard against panics, hangs and broken tree invariants on arbitrary
// inputs.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
