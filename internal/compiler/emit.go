package compiler

import (
	"mend/internal/bytecode"
	"mend/internal/source"
)

// maxCodeLen mirrors the JVM limit on method size.
const maxCodeLen = 65535

type emitter struct {
	unit *source.Unit
	code []bytecode.Instr
}

func (e *emitter) emit(op bytecode.Op, a int64, sp source.Span) int {
	e.code = append(e.code, bytecode.Instr{Op: op, A: a, Line: e.unit.Position(sp.Start).Line})
	return len(e.code) - 1
}

func (e *emitter) pc() int { return len(e.code) }

// patch points the jump at pc to the next instruction emitted.
func (e *emitter) patch(at int) {
	e.code[at].A = int64(len(e.code))
}

func (e *emitter) patchTo(at, target int) {
	e.code[at].A = int64(target)
}
