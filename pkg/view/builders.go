package view

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// FunctionCall builds `callee(args...)`. callee may be a dotted path.
func (viewCtx *Context) FunctionCall(callee string, args ...any) (*CallView, error) {
	return viewCtx.build(jsast.CallExpression, callee, args)
}

// NewExpression builds `new callee(args...)`.
func (viewCtx *Context) NewExpression(callee string, args ...any) (*CallView, error) {
	return viewCtx.build(jsast.NewExpression, callee, args)
}

func (viewCtx *Context) build(nodeType jsast.Type, callee string, args []any) (*CallView, error) {
	calleeExpr, err := calleeNode(callee)
	if err != nil {
		return nil, err
	}

	argList := jsast.New(jsast.Arguments, "")

	for idx, arg := range args {
		encoded, encodeErr := Encode(arg)
		if encodeErr != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", idx, callee, encodeErr)
		}

		argList.AddChild(encoded)
	}

	call := jsast.New(nodeType, "", calleeExpr, argList)

	built, err := viewCtx.ViewOf(call)
	if err != nil {
		return nil, err
	}

	callView, _ := built.(*CallView)

	return callView, nil
}

// Literal encodes value and returns its decoded form: a Go value for
// primitives, a view for composites.
func (viewCtx *Context) Literal(value any) (any, error) {
	encoded, err := Encode(value)
	if err != nil {
		return nil, err
	}

	return viewCtx.decode(encoded)
}

// Raw parses a code fragment as an expression and returns its decoded
// form. The fragment keeps its own formatting when printed.
func (viewCtx *Context) Raw(ctx context.Context, code string) (any, error) {
	expr, err := viewCtx.parser.ParseExpression(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("raw expression: %w", err)
	}

	return viewCtx.decode(expr)
}
