// Package jsparse turns JavaScript and TypeScript source text into jsast
// trees using tree-sitter grammars.
package jsparse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

const tracerName = "github.com/Sumatoshi-tech/codeshape/pkg/jsparse"

// Sentinel errors for parser operations.
var (
	ErrSyntax              = errors.New("syntax error")
	ErrUnknownDialect      = errors.New("unknown dialect")
	ErrNotExpression       = errors.New("code is not a single expression")
	errLanguageUnavailable = errors.New("tree-sitter language not available")
	errNoRootNode          = errors.New("parser: no root node")
	errPoolType            = errors.New("parser: pool returned unexpected type")
)

// SyntaxError reports the first error node found in the parsed tree.
type SyntaxError struct {
	Filename string
	Snippet  string
	Line     uint
	Column   uint
}

// Error implements error.
func (syntaxErr *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error near %q", syntaxErr.Filename, syntaxErr.Line, syntaxErr.Column, syntaxErr.Snippet)
}

// Unwrap returns ErrSyntax.
func (syntaxErr *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(parser *Parser) {
		parser.logger = logger
	}
}

// WithDialect forces a dialect instead of detecting it from the filename.
func WithDialect(dialect Dialect) Option {
	return func(parser *Parser) {
		parser.dialect = dialect
	}
}

// Parser parses modules into jsast trees. It is safe for concurrent use;
// tree-sitter parsers are pooled per dialect.
type Parser struct {
	logger  *slog.Logger
	pools   map[Dialect]*sync.Pool
	dialect Dialect
	mu      sync.Mutex
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	parser := &Parser{
		logger: slog.Default(),
		pools:  make(map[Dialect]*sync.Pool, len(dialectFuncs)),
	}

	for _, opt := range opts {
		opt(parser)
	}

	return parser
}

// Parse parses a whole module. The dialect is detected from filename unless
// the parser was created with WithDialect.
func (parser *Parser) Parse(ctx context.Context, filename string, content []byte) (*jsast.Node, error) {
	dialect := parser.dialect
	if dialect == "" {
		dialect = DetectDialect(filename, content)
	}

	return parser.ParseDialect(ctx, dialect, filename, content)
}

// ParseDialect parses a whole module with an explicit dialect.
func (parser *Parser) ParseDialect(ctx context.Context, dialect Dialect, filename string, content []byte) (*jsast.Node, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "codeshape.parse",
		trace.WithAttributes(
			attribute.String("parse.dialect", string(dialect)),
			attribute.Int("parse.bytes", len(content)),
		))
	defer span.End()

	started := time.Now()

	tsParser, pool, err := parser.acquire(dialect)
	if err != nil {
		return nil, err
	}

	defer pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	if root.HasError() {
		syntaxErr := findSyntaxError(root, content)
		syntaxErr.Filename = filename
		span.RecordError(syntaxErr)

		return nil, syntaxErr
	}

	conv := &converter{source: content}
	program := conv.program(root)

	parser.logger.DebugContext(ctx, "parsed module",
		"file", filename, "dialect", dialect, "bytes", len(content),
		"statements", len(program.Children), "elapsed", time.Since(started))

	return program, nil
}

// ParseExpression parses a single expression fragment such as `{ a: 1 }`
// or `defineConfig({})`. The returned node keeps its own source so it can
// be inserted into any module.
func (parser *Parser) ParseExpression(ctx context.Context, code string) (*jsast.Node, error) {
	dialect := parser.dialect
	if dialect == "" {
		dialect = TypeScript
	}

	wrapped := []byte("(" + code + "\n)")

	program, err := parser.ParseDialect(ctx, dialect, "<expression>", wrapped)
	if err != nil {
		return nil, err
	}

	if len(program.Children) != 1 || program.Children[0].Type != jsast.ExpressionStatement {
		return nil, fmt.Errorf("%w: %q", ErrNotExpression, code)
	}

	paren := program.Children[0].Child(0)
	if paren == nil || paren.Type != jsast.ParenthesizedExpression || paren.Child(0) == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotExpression, code)
	}

	return paren.Child(0), nil
}

func (parser *Parser) acquire(dialect Dialect) (*sitter.Parser, *sync.Pool, error) {
	parser.mu.Lock()

	pool, ok := parser.pools[dialect]
	if !ok {
		lang := language(dialect)
		if lang == nil {
			parser.mu.Unlock()

			return nil, nil, fmt.Errorf("%w: %s", errLanguageUnavailable, dialect)
		}

		pool = &sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		}
		parser.pools[dialect] = pool
	}

	parser.mu.Unlock()

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, nil, errPoolType
	}

	return tsParser, pool, nil
}

func findSyntaxError(root sitter.Node, content []byte) *SyntaxError {
	stack := []sitter.Node{root}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if curr.Type() == "ERROR" {
			point := curr.StartPoint()
			snippet := curr.Content(content)

			if len(snippet) > maxSnippetLen {
				snippet = snippet[:maxSnippetLen]
			}

			return &SyntaxError{Line: point.Row + 1, Column: point.Column + 1, Snippet: snippet}
		}

		var erroneous []sitter.Node

		for idx := range curr.ChildCount() {
			child := curr.Child(idx)
			if child.HasError() {
				erroneous = append(erroneous, child)
			}
		}

		slices.Reverse(erroneous)
		stack = append(stack, erroneous...)
	}

	point := root.StartPoint()

	return &SyntaxError{Line: point.Row + 1, Column: point.Column + 1}
}

const maxSnippetLen = 40
