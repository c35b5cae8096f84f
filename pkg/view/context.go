package view

import (
	"log/slog"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsparse"
)

// Option configures ParseModule and NewContext.
type Option func(*settings)

type settings struct {
	logger   *slog.Logger
	parser   *jsparse.Parser
	filename string
	dialect  jsparse.Dialect
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *settings) {
		cfg.logger = logger
	}
}

// WithParser reuses an existing parser.
func WithParser(parser *jsparse.Parser) Option {
	return func(cfg *settings) {
		cfg.parser = parser
	}
}

// WithFilename names the module. The name picks the dialect and appears in
// syntax errors.
func WithFilename(filename string) Option {
	return func(cfg *settings) {
		cfg.filename = filename
	}
}

// WithDialect forces the parser dialect.
func WithDialect(dialect jsparse.Dialect) Option {
	return func(cfg *settings) {
		cfg.dialect = dialect
	}
}

func newSettings(opts []Option) *settings {
	cfg := &settings{logger: slog.Default()}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dialect == "" && cfg.filename == "" {
		cfg.dialect = jsparse.TypeScript
	}

	if cfg.parser == nil {
		parserOpts := []jsparse.Option{jsparse.WithLogger(cfg.logger)}
		if cfg.dialect != "" {
			parserOpts = append(parserOpts, jsparse.WithDialect(cfg.dialect))
		}

		cfg.parser = jsparse.NewParser(parserOpts...)
	}

	return cfg
}

// Context owns the identity cache: asking twice for the view of the same
// node returns the same View. A Context is not safe for concurrent use.
type Context struct {
	cache  map[*jsast.Node]View
	module *Module
	parser *jsparse.Parser
	logger *slog.Logger
}

// NewContext creates a Context that is not attached to a module.
func NewContext(opts ...Option) *Context {
	cfg := newSettings(opts)

	return newContext(cfg)
}

func newContext(cfg *settings) *Context {
	return &Context{
		cache:  make(map[*jsast.Node]View),
		parser: cfg.parser,
		logger: cfg.logger,
	}
}

// ViewOf returns the view for targetNode. Parentheses and TypeScript
// `as`/`satisfies` wrappers are looked through.
func (viewCtx *Context) ViewOf(targetNode *jsast.Node) (View, error) {
	targetNode = unwrap(targetNode)
	if targetNode == nil {
		return nil, &UnsupportedNodeError{}
	}

	if cached, ok := viewCtx.cache[targetNode]; ok {
		return cached, nil
	}

	created, err := viewCtx.create(targetNode)
	if err != nil {
		viewCtx.logger.Debug("no view for node", "type", targetNode.Type, "token", targetNode.Token)

		return nil, err
	}

	viewCtx.cache[targetNode] = created

	return created, nil
}

func (viewCtx *Context) create(targetNode *jsast.Node) (View, error) {
	switch targetNode.Type {
	case jsast.ObjectExpression:
		return &ObjectView{ctx: viewCtx, node: targetNode}, nil
	case jsast.ArrayExpression, jsast.Arguments:
		return &ArrayView{ctx: viewCtx, node: targetNode}, nil
	case jsast.CallExpression, jsast.NewExpression:
		return &CallView{ctx: viewCtx, node: targetNode}, nil
	case jsast.Identifier:
		return &IdentifierView{node: targetNode}, nil
	case jsast.BinaryExpression, jsast.LogicalExpression:
		return &BinaryView{ctx: viewCtx, node: targetNode}, nil
	case jsast.MemberExpression:
		return &MemberView{ctx: viewCtx, node: targetNode}, nil
	case jsast.BlockStatement:
		return &BlockView{node: targetNode}, nil
	case jsast.FunctionExpression, jsast.ArrowFunctionExpression:
		return &FunctionView{ctx: viewCtx, node: targetNode}, nil
	case jsast.Program:
		if viewCtx.module != nil && viewCtx.module.program == targetNode {
			return viewCtx.module, nil
		}
	}

	return nil, &UnsupportedNodeError{Node: targetNode}
}

// unwrap strips wrappers that do not change the value of an expression.
func unwrap(targetNode *jsast.Node) *jsast.Node {
	for targetNode != nil {
		switch targetNode.Type {
		case jsast.ParenthesizedExpression, jsast.TSAsExpression, jsast.TSSatisfiesExpression:
			targetNode = targetNode.Child(0)
		default:
			return targetNode
		}
	}

	return nil
}
