// Package jsast provides the mutable JavaScript syntax node used by the
// parser, the views and the printer.
//
// A Node is a Type tag, a Token, a small Props map and an ordered list of
// Children. The meaning of each child slot depends on the node type:
//
//	Program                   statements...
//	ImportDeclaration         [source StringLiteral, specifiers...]
//	ImportSpecifier           [imported Identifier, local Identifier]
//	ImportDefaultSpecifier    [local Identifier]
//	ImportNamespaceSpecifier  [local Identifier]
//	ExportDefaultDeclaration  [declaration or expression]
//	ExportNamedDeclaration    [declaration or nil, ExportSpecifier...]  (Props "source" holds a re-export source)
//	ExportSpecifier           [local Identifier, exported Identifier]
//	VariableDeclaration       VariableDeclarator...                     (Token is const, let or var)
//	VariableDeclarator        [id, init or nil]
//	ExpressionStatement       [expression]
//	ObjectExpression          Property or SpreadElement...
//	Property                  [key, value]                              (Props computed, shorthand, method)
//	SpreadElement             [argument]
//	ArrayExpression           elements... (nil marks a hole)
//	CallExpression            [callee, Arguments]                       (Props optional)
//	NewExpression             [callee, Arguments]
//	Arguments                 arguments...
//	MemberExpression          [object, property]                        (Props computed, optional)
//	BinaryExpression          [left, right]                             (Token is the operator)
//	LogicalExpression         [left, right]                             (Token is the operator)
//	UnaryExpression           [argument]                                (Token is the operator)
//	FunctionExpression        [Params, BlockStatement]                  (Token is the name, Props async)
//	ArrowFunctionExpression   [Params, body]                            (Props async)
//	Params                    parameters...
//	BlockStatement            statements...
//	ParenthesizedExpression   [expression]
//	TSAsExpression            [expression, type]
//	TSSatisfiesExpression     [expression, type]
//
// Leaves carry their value in Token: Identifier holds the name,
// StringLiteral and TemplateLiteral hold the cooked value (the raw text is
// kept in Props "raw"), NumericLiteral, BooleanLiteral and RegExpLiteral
// hold their source text. Opaque nodes hold the tree-sitter kind in Token
// and can only be reproduced from their original text.
//
// Nodes created by the parser carry an Origin: the source bytes and a
// snapshot of the node as parsed. The printer compares a node against its
// Origin to decide which original bytes can be reused.
package jsast
