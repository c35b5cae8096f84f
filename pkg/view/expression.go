package view

import (
	"fmt"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// IdentifierView is a reference to a binding, such as `vue` in
// `plugins: [vue]`.
type IdentifierView struct {
	node *jsast.Node
}

// Kind returns KindIdentifier.
func (ident *IdentifierView) Kind() Kind { return KindIdentifier }

// Node returns the Identifier node.
func (ident *IdentifierView) Node() *jsast.Node { return ident.node }

// Name returns the identifier name.
func (ident *IdentifierView) Name() string { return ident.node.Token }

// SetName renames this occurrence only.
func (ident *IdentifierView) SetName(name string) error {
	if !jsast.IsIdentifierName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	ident.node.Token = name

	return nil
}

// Snapshot returns the identifier name.
func (ident *IdentifierView) Snapshot() (any, error) {
	return map[string]any{snapshotTypeKey: string(KindIdentifier), "name": ident.node.Token}, nil
}

// BinaryView covers binary and logical expressions.
type BinaryView struct {
	ctx  *Context
	node *jsast.Node
}

// Kind returns KindBinary or KindLogical.
func (binary *BinaryView) Kind() Kind {
	if binary.node.Type == jsast.LogicalExpression {
		return KindLogical
	}

	return KindBinary
}

// Node returns the underlying node.
func (binary *BinaryView) Node() *jsast.Node { return binary.node }

// Operator returns the operator, such as "+" or "??".
func (binary *BinaryView) Operator() string { return binary.node.Token }

// Left returns the decoded left operand.
func (binary *BinaryView) Left() (any, error) { return binary.ctx.decode(binary.node.Child(0)) }

// Right returns the decoded right operand.
func (binary *BinaryView) Right() (any, error) { return binary.ctx.decode(binary.node.Child(1)) }

// SetLeft replaces the left operand.
func (binary *BinaryView) SetLeft(value any) error { return binary.setOperand(0, value) }

// SetRight replaces the right operand.
func (binary *BinaryView) SetRight(value any) error { return binary.setOperand(1, value) }

func (binary *BinaryView) setOperand(index int, value any) error {
	encoded, err := encodeInto(binary.node, value)
	if err != nil {
		return err
	}

	binary.node.Children[index] = encoded

	return nil
}

// MemberView covers property access such as `process.env.NODE_ENV`.
type MemberView struct {
	ctx  *Context
	node *jsast.Node
}

// Kind returns KindMember.
func (member *MemberView) Kind() Kind { return KindMember }

// Node returns the MemberExpression node.
func (member *MemberView) Node() *jsast.Node { return member.node }

// Object returns the decoded object being accessed.
func (member *MemberView) Object() (any, error) { return member.ctx.decode(member.node.Child(0)) }

// Property returns the decoded property. For `a.b` this is the identifier
// view of b; for `a["b"]` it is the string "b".
func (member *MemberView) Property() (any, error) { return member.ctx.decode(member.node.Child(1)) }

// Computed reports whether the access uses brackets.
func (member *MemberView) Computed() bool { return member.node.Flag(jsast.PropComputed) }

// Path returns the dotted path, or "" when the chain is not made of
// plain identifiers.
func (member *MemberView) Path() string {
	name, _ := dottedName(member.node)

	return name
}

// Snapshot returns the dotted path.
func (member *MemberView) Snapshot() (any, error) {
	return map[string]any{snapshotTypeKey: string(KindMember), "path": member.Path()}, nil
}

// BlockView is a statement block, typically a function body.
type BlockView struct {
	node *jsast.Node
}

// Kind returns KindBlock.
func (block *BlockView) Kind() Kind { return KindBlock }

// Node returns the BlockStatement node.
func (block *BlockView) Node() *jsast.Node { return block.node }

// Len returns the number of statements.
func (block *BlockView) Len() int { return len(block.node.Children) }

// Statements returns the statement nodes.
func (block *BlockView) Statements() []*jsast.Node { return block.node.Children }

// FunctionView covers function expressions, methods and arrow functions.
type FunctionView struct {
	ctx  *Context
	node *jsast.Node
}

// Kind returns KindFunction or KindArrowFunction.
func (fn *FunctionView) Kind() Kind {
	if fn.node.Type == jsast.ArrowFunctionExpression {
		return KindArrowFunction
	}

	return KindFunction
}

// Node returns the function node.
func (fn *FunctionView) Node() *jsast.Node { return fn.node }

// Name returns the function name, or "" for anonymous functions.
func (fn *FunctionView) Name() string { return fn.node.Token }

// Async reports whether the function is async.
func (fn *FunctionView) Async() bool { return fn.node.Flag(jsast.PropAsync) }

// Params returns the names of simple parameters. Destructured or
// defaulted parameters are reported as "".
func (fn *FunctionView) Params() []string {
	params := fn.node.Child(0)
	if params == nil {
		return nil
	}

	names := make([]string, 0, len(params.Children))

	for _, param := range params.Children {
		if param != nil && param.Type == jsast.Identifier {
			names = append(names, param.Token)
		} else {
			names = append(names, "")
		}
	}

	return names
}

// Body returns the block view of the body, or the decoded expression of
// an arrow function with an expression body.
func (fn *FunctionView) Body() (any, error) {
	return fn.ctx.decode(fn.node.Child(1))
}
