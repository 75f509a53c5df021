// Package parser is a recursive-descent parser for the Java subset accepted
// by mend. It produces tree.Tree values directly; node types use JDT names
// (see nodes.go) and shapes are fixed so later phases can read them by
// position:
//
//	TypeDeclaration            Modifier*, SimpleName, member*
//	FieldDeclaration           Modifier*, type, VariableDeclarationFragment+
//	MethodDeclaration          Modifier*, type, SimpleName, SingleVariableDeclaration*, Block?
//	VariableDeclarationFragment SimpleName, initializer?
//	MethodInvocation           receiver?, SimpleName, Arguments
//	ForStatement               ForInit, condition?, ForUpdate, body
//
// Identifiers and literals label leaves; operators label InfixExpression,
// PrefixExpression, PostfixExpression and Assignment nodes.
package parser
