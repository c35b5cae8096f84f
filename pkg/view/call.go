package view

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// CallView is a live view over a function call or a new expression.
type CallView struct {
	ctx  *Context
	node *jsast.Node
}

// Kind returns KindFunctionCall or KindNewExpression.
func (call *CallView) Kind() Kind {
	if call.node.Type == jsast.NewExpression {
		return KindNewExpression
	}

	return KindFunctionCall
}

// Node returns the CallExpression or NewExpression node.
func (call *CallView) Node() *jsast.Node { return call.node }

// CalleeName returns the callee as a dotted path such as
// "defineConfig" or "path.resolve". It is empty when the callee is not a
// plain identifier chain.
func (call *CallView) CalleeName() string {
	name, _ := dottedName(call.node.Child(0))

	return name
}

// SetCallee replaces the callee with a dotted identifier path.
func (call *CallView) SetCallee(name string) error {
	callee, err := calleeNode(name)
	if err != nil {
		return err
	}

	call.node.Children[0] = callee

	return nil
}

// Arguments returns the argument list as an array view.
func (call *CallView) Arguments() *ArrayView {
	args := call.node.Child(1)
	if args == nil {
		args = jsast.New(jsast.Arguments, "")
		call.node.Children = append(call.node.Children[:1], args)
	}

	argsView, _ := call.ctx.ViewOf(args)

	typed, _ := argsView.(*ArrayView)

	return typed
}

// Snapshot describes the call with its callee and arguments.
func (call *CallView) Snapshot() (any, error) {
	args, err := call.Arguments().Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot arguments of %s: %w", call.CalleeName(), err)
	}

	return map[string]any{
		snapshotTypeKey:      string(call.Kind()),
		snapshotCalleeKey:    call.CalleeName(),
		snapshotArgumentsKey: args,
	}, nil
}

// dottedName flattens a chain of non-computed member expressions over
// identifiers.
func dottedName(targetNode *jsast.Node) (string, bool) {
	targetNode = unwrap(targetNode)
	if targetNode == nil {
		return "", false
	}

	switch targetNode.Type {
	case jsast.Identifier:
		return targetNode.Token, true
	case jsast.MemberExpression:
		if targetNode.Flag(jsast.PropComputed) {
			return "", false
		}

		object, ok := dottedName(targetNode.Child(0))
		property := targetNode.Child(1)

		if !ok || property == nil || property.Type != jsast.Identifier {
			return "", false
		}

		return object + "." + property.Token, true
	default:
		return "", false
	}
}

// calleeNode builds an identifier or member chain from a dotted path.
func calleeNode(name string) (*jsast.Node, error) {
	parts := strings.Split(name, ".")

	for _, part := range parts {
		if !jsast.IsIdentifierName(part) {
			return nil, fmt.Errorf("%w: callee %q", ErrInvalidName, name)
		}
	}

	callee := jsast.NewIdentifier(parts[0])
	for _, part := range parts[1:] {
		callee = jsast.New(jsast.MemberExpression, "", callee, jsast.NewIdentifier(part))
	}

	return callee, nil
}
