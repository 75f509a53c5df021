package parser

// Node types produced by the parser. Names follow the Eclipse JDT DOM so
// that edit scripts read like the ones produced by JDT-based tools.
const (
	CompilationUnit           = "CompilationUnit"
	PackageDeclaration        = "PackageDeclaration"
	ImportDeclaration         = "ImportDeclaration"
	TypeDeclaration           = "TypeDeclaration"
	FieldDeclaration          = "FieldDeclaration"
	MethodDeclaration         = "MethodDeclaration"
	SingleVariableDeclaration = "SingleVariableDeclaration"
	VariableDeclarationFrag   = "VariableDeclarationFragment"
	VariableDeclarationStmt   = "VariableDeclarationStatement"
	Modifier                  = "Modifier"
	MarkerAnnotation          = "MarkerAnnotation"
	PrimitiveType             = "PrimitiveType"
	SimpleType                = "SimpleType"
	SimpleName                = "SimpleName"
	QualifiedName             = "QualifiedName"
	Block                     = "Block"
	ExpressionStatement       = "ExpressionStatement"
	IfStatement               = "IfStatement"
	WhileStatement            = "WhileStatement"
	DoStatement               = "DoStatement"
	ForStatement              = "ForStatement"
	ForInit                   = "ForInit"
	ForUpdate                 = "ForUpdate"
	ReturnStatement           = "ReturnStatement"
	BreakStatement            = "BreakStatement"
	ContinueStatement         = "ContinueStatement"
	EmptyStatement            = "EmptyStatement"
	NumberLiteral             = "NumberLiteral"
	StringLiteral             = "StringLiteral"
	BooleanLiteral            = "BooleanLiteral"
	NullLiteral               = "NullLiteral"
	ThisExpression            = "ThisExpression"
	FieldAccess               = "FieldAccess"
	MethodInvocation          = "MethodInvocation"
	Arguments                 = "Arguments"
	ClassInstanceCreation     = "ClassInstanceCreation"
	PrefixExpression          = "PrefixExpression"
	PostfixExpression         = "PostfixExpression"
	InfixExpression           = "InfixExpression"
	ConditionalExpression     = "ConditionalExpression"
	Assignment                = "Assignment"
	ParenthesizedExpression   = "ParenthesizedExpression"
)
