package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/testkit"
)

func parse(t *testing.T, text string) (parser.Result, *diag.Bag, *source.Store) {
	t.Helper()
	store := source.NewStore()
	u := store.AddSource("p.A", text)
	bag := diag.NewBag(0)
	res := parser.Parse(u, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	bag.Resolve(store)
	return res, bag, store
}

func unitOf(store *source.Store) *source.Unit {
	u, _ := store.Lookup("p.A")
	return u
}

func TestParse_Class(t *testing.T) {
	src := `package p;
import q.Util;

public class A {
    static int count = 0;
    private int f(int x) { return x + 1; }
}
`
	res, bag, store := parse(t, src)
	require.False(t, bag.HasErrors(), diag.FormatShort(bag.Items()))
	require.NotNil(t, res.Tree)
	require.NoError(t, testkit.CheckTree(res.Tree, unitOf(store)))

	want := `(CompilationUnit` +
		` (PackageDeclaration (SimpleName "p"))` +
		` (ImportDeclaration (QualifiedName "q.Util"))` +
		` (TypeDeclaration (Modifier "public") (SimpleName "A")` +
		` (FieldDeclaration (Modifier "static") (PrimitiveType "int") (VariableDeclarationFragment (SimpleName "count") (NumberLiteral "0")))` +
		` (MethodDeclaration (Modifier "private") (PrimitiveType "int") (SimpleName "f")` +
		` (SingleVariableDeclaration (PrimitiveType "int") (SimpleName "x"))` +
		` (Block (ReturnStatement (InfixExpression "+" (SimpleName "x") (NumberLiteral "1")))))))`
	assert.Equal(t, want, res.Tree.String())
	assert.Equal(t, "p.A", res.Tree.Source.Unit)
}

func TestParse_Statements(t *testing.T) {
	src := `class A {
  void run() {
    int i = 0, j;
    for (i = 0; i < 10; i++) { continue; }
    for (int k = 0; ; ) break;
    while (!done) i += 2;
    do { j = i > 3 ? 1 : 2; } while (false);
    if (a.b == null) { this.x = "s"; } else ;
    Util.log(new B(), -1, s.length());
  }
}`
	res, bag, store := parse(t, src)
	require.False(t, bag.HasErrors(), diag.FormatShort(bag.Items()))
	require.NotNil(t, res.Tree)
	require.NoError(t, testkit.CheckTree(res.Tree, unitOf(store)))
	s := res.Tree.String()
	for _, frag := range []string{
		`(VariableDeclarationStatement (PrimitiveType "int") (VariableDeclarationFragment (SimpleName "i") (NumberLiteral "0")) (VariableDeclarationFragment (SimpleName "j")))`,
		`(ForStatement (ForInit (Assignment "=" (SimpleName "i") (NumberLiteral "0"))) (InfixExpression "<" (SimpleName "i") (NumberLiteral "10")) (ForUpdate (PostfixExpression "++" (SimpleName "i"))) (Block (ContinueStatement)))`,
		`(ForStatement (ForInit (VariableDeclarationStatement (PrimitiveType "int") (VariableDeclarationFragment (SimpleName "k") (NumberLiteral "0")))) (ForUpdate) (BreakStatement))`,
		`(WhileStatement (PrefixExpression "!" (SimpleName "done")) (ExpressionStatement (Assignment "+=" (SimpleName "i") (NumberLiteral "2"))))`,
		`(ConditionalExpression (InfixExpression ">" (SimpleName "i") (NumberLiteral "3")) (NumberLiteral "1") (NumberLiteral "2"))`,
		`(IfStatement (InfixExpression "==" (FieldAccess (SimpleName "a") (SimpleName "b")) (NullLiteral)) (Block (ExpressionStatement (Assignment "=" (FieldAccess (ThisExpression) (SimpleName "x")) (StringLiteral "\"s\"")))) (EmptyStatement))`,
		`(MethodInvocation (SimpleName "Util") (SimpleName "log") (Arguments (ClassInstanceCreation (SimpleType "B") (Arguments)) (PrefixExpression "-" (NumberLiteral "1")) (MethodInvocation (SimpleName "s") (SimpleName "length") (Arguments))))`,
	} {
		assert.Contains(t, s, frag)
	}
}

func TestParse_Precedence(t *testing.T) {
	res, bag, _ := parse(t, "class A { int f() { return 1 + 2 * 3 - 4; } }")
	require.False(t, bag.HasErrors())
	assert.Contains(t, res.Tree.String(),
		`(InfixExpression "-" (InfixExpression "+" (NumberLiteral "1") (InfixExpression "*" (NumberLiteral "2") (NumberLiteral "3"))) (NumberLiteral "4"))`)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
		line uint32
		col  uint32
	}{
		{"unmatched brace", "class A {\n  void f() { }\n  }\n}\n", diag.SynUnmatchedBrace, 4, 1},
		{"missing semicolon", "class A {\n  int f() {\n    return 1\n  }\n}", diag.SynExpectSemicolon, 3, 13},
		{"unknown char", "class A {\n  int x = 1 # 2;\n}", diag.LexUnknownChar, 2, 13},
		{"unclosed class", "class A {\n  int x;\n", diag.SynUnclosedBrace, 2, 9},
		{"bad assignment", "class A { void f() { 1 = 2; } }", diag.SynInvalidAssignment, 1, 24},
		{"missing expression", "class A { int x = ; }", diag.SynExpectExpression, 1, 19},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, bag, _ := parse(t, tc.src)
			assert.Nil(t, res.Tree, "no partial tree on error")
			require.True(t, bag.HasErrors())
			assert.Positive(t, res.Errors)
			d := bag.Items()[0]
			assert.Equal(t, tc.code, d.Code, d.Message)
			assert.Equal(t, tc.line, d.Line, d.Message)
			assert.Equal(t, tc.col, d.Column, d.Message)
		})
	}
}

func TestParse_MaxErrors(t *testing.T) {
	store := source.NewStore()
	u := store.AddSource("p.A", "class A { int a = ; int b = ; int c = ; int d = ; }")
	bag := diag.NewBag(0)
	res := parser.Parse(u, parser.Options{MaxErrors: 2, Reporter: &diag.BagReporter{Bag: bag}})
	assert.Nil(t, res.Tree)
	assert.Equal(t, 2, bag.Len())
}
