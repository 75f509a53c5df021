package compiler

import (
	"strings"

	"mend/internal/bytecode"
	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/tree"
)

// declare registers every class first, then resolves member signatures,
// so a signature may mention a class declared later or in another unit.
func (s *session) declare() error {
	for _, u := range s.units {
		if u.tree == nil {
			continue
		}
		t := u.tree
		hasClass := false
		for _, id := range t.Children(t.Root()) {
			switch t.Type(id) {
			case parser.PackageDeclaration:
				u.pkg = t.Label(t.Children(id)[0])
			case parser.ImportDeclaration:
				u.imports = append(u.imports, t.Label(t.Children(id)[0]))
			case parser.TypeDeclaration:
				hasClass = true
				s.declareClass(u, id)
			}
		}
		// отклонённый класс всё равно считается объявленным
		if !hasClass {
			s.errorf(u, diag.SemaError, t.Span(t.Root()), "no class declared in %s", u.unit.QualifiedName)
		}
	}
	for _, ci := range s.order {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		s.declareMembers(ci)
	}
	for _, u := range s.units {
		s.checkImports(u)
	}
	return nil
}

func (s *session) declareClass(u *unitInfo, id tree.NodeID) {
	t := u.tree
	nameID := firstOfType(t, id, parser.SimpleName)
	name := t.Label(nameID)
	if prev, dup := s.classes[name]; dup {
		s.errorf(u, diag.SemaDuplicateClass, t.Span(nameID), "duplicate class: %s (first declared in %s)", name, prev.unit.unit.QualifiedName)
		return
	}
	if isBuiltinClass(name) {
		s.errorf(u, diag.SemaDuplicateClass, t.Span(nameID), "class %s clashes with a builtin class", name)
		return
	}
	ci := &classInfo{
		name: name,
		unit: u,
		node: id,
		class: &bytecode.Class{
			Name:    name,
			Package: u.pkg,
			Unit:    u.unit.QualifiedName,
			Imports: u.imports,
		},
	}
	s.classes[name] = ci
	s.order = append(s.order, ci)
}

func (s *session) declareMembers(ci *classInfo) {
	u := ci.unit
	t := u.tree
	seenField := make(map[string]bool)
	seenMethod := make(map[string]bool)

	for _, m := range t.Children(ci.node) {
		switch t.Type(m) {
		case parser.FieldDeclaration:
			kids := t.Children(m)
			mods, rest := splitModifiers(t, kids)
			static := mods["static"]
			typ := s.resolveType(u, rest[0])
			if typ == Void {
				s.errorf(u, diag.SemaVoidValue, t.Span(rest[0]), "'void' type not allowed here")
				typ = Invalid
			}
			for _, frag := range rest[1:] {
				fk := t.Children(frag)
				name := t.Label(fk[0])
				if seenField[name] {
					s.errorf(u, diag.SemaDuplicateSymbol, t.Span(fk[0]), "variable %s is already defined in class %s", name, ci.name)
					continue
				}
				seenField[name] = true
				fi := &fieldInfo{name: name, typ: typ, static: static, span: t.Span(fk[0])}
				if len(fk) > 1 {
					fi.init = fk[1]
				}
				ci.fields = append(ci.fields, fi)
				ci.class.Fields = append(ci.class.Fields, bytecode.Field{Name: name, Type: string(typ), Static: static})
			}

		case parser.MethodDeclaration:
			s.declareMethod(ci, m, seenMethod)
		}
	}

	// синтетические инициализаторы полей
	ci.class.Methods = append(ci.class.Methods, bytecode.Method{Name: bytecode.InitMethod, Result: string(Void)})
	for _, f := range ci.fields {
		if f.static && f.init != tree.NoNode {
			ci.class.Methods = append(ci.class.Methods, bytecode.Method{Name: bytecode.ClinitMethod, Result: string(Void), Static: true})
			break
		}
	}
}

func (s *session) declareMethod(ci *classInfo, m tree.NodeID, seen map[string]bool) {
	u := ci.unit
	t := u.tree
	mods, rest := splitModifiers(t, t.Children(m))
	result := s.resolveType(u, rest[0])
	nameID := rest[1]
	name := t.Label(nameID)

	mi := &methodInfo{name: name, result: result, static: mods["static"], node: m}
	seenParam := make(map[string]bool)
	for _, p := range rest[2:] {
		if t.Type(p) == parser.Block {
			mi.body = p
			continue
		}
		_, pk := splitModifiers(t, t.Children(p))
		ptyp := s.resolveType(u, pk[0])
		if ptyp == Void {
			s.errorf(u, diag.SemaVoidValue, t.Span(pk[0]), "'void' type not allowed here")
			ptyp = Invalid
		}
		pname := t.Label(pk[1])
		if seenParam[pname] {
			s.errorf(u, diag.SemaDuplicateSymbol, t.Span(pk[1]), "variable %s is already defined in method %s", pname, name)
		}
		seenParam[pname] = true
		mi.params = append(mi.params, paramInfo{name: pname, typ: ptyp, span: t.Span(pk[1])})
	}
	if mi.body == tree.NoNode {
		s.errorf(u, diag.SemaError, t.Span(nameID), "missing method body for %s", name)
		return
	}
	if seen[name] {
		s.errorf(u, diag.SemaDuplicateSymbol, t.Span(nameID), "method %s is already defined in class %s", name, ci.name)
		return
	}
	seen[name] = true

	params := make([]string, len(mi.params))
	for i, p := range mi.params {
		params[i] = string(p.typ)
	}
	mi.index = len(ci.class.Methods)
	ci.methods = append(ci.methods, mi)
	ci.class.Methods = append(ci.class.Methods, bytecode.Method{
		Name:   name,
		Params: params,
		Result: string(result),
		Static: mi.static,
		Public: mods["public"],
		Line:   u.unit.Position(t.Span(nameID).Start).Line,
	})
}

func (s *session) checkImports(u *unitInfo) {
	if u.tree == nil {
		return
	}
	t := u.tree
	for _, id := range t.Children(t.Root()) {
		if t.Type(id) != parser.ImportDeclaration {
			continue
		}
		full := t.Label(t.Children(id)[0])
		simple := lastSegment(full)
		if isBuiltinClass(simple) {
			continue
		}
		if _, ok := s.classes[simple]; ok {
			continue
		}
		if _, ok := s.cp.Lookup(full); ok {
			continue
		}
		if _, ok := s.cp.Lookup(simple); ok {
			continue
		}
		s.errorf(u, diag.SemaUnresolvedImport, t.Span(id), "cannot find symbol: class %s", full)
	}
}

// resolveType maps a PrimitiveType or SimpleType node to a Type.
func (s *session) resolveType(u *unitInfo, id tree.NodeID) Type {
	t := u.tree
	label := t.Label(id)
	if t.Type(id) == parser.PrimitiveType {
		return Type(label)
	}
	simple := lastSegment(label)
	if simple == "String" {
		return String
	}
	if _, ok := s.lookupClass(simple); ok {
		return Type(simple)
	}
	s.errorf(u, diag.SemaUnknownType, t.Span(id), "cannot find symbol: class %s", label)
	return Invalid
}

// lookupClass finds a class declared in this session or on the classpath.
func (s *session) lookupClass(name string) (*bytecode.Class, bool) {
	if ci, ok := s.classes[name]; ok {
		return ci.class, true
	}
	return s.cp.Lookup(name)
}

// splitModifiers separates leading Modifier and MarkerAnnotation children.
func splitModifiers(t *tree.Tree, kids []tree.NodeID) (map[string]bool, []tree.NodeID) {
	mods := make(map[string]bool)
	i := 0
	for ; i < len(kids); i++ {
		switch t.Type(kids[i]) {
		case parser.Modifier:
			mods[t.Label(kids[i])] = true
		case parser.MarkerAnnotation:
		default:
			return mods, kids[i:]
		}
	}
	return mods, nil
}

func firstOfType(t *tree.Tree, parent tree.NodeID, typ string) tree.NodeID {
	for _, c := range t.Children(parent) {
		if t.Type(c) == typ {
			return c
		}
	}
	return tree.NoNode
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
