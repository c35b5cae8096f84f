package view

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsprint"
)

const tracerName = "github.com/Sumatoshi-tech/codeshape/pkg/view"

// Module is the root view of a parsed file.
type Module struct {
	ctx      *Context
	program  *jsast.Node
	exports  *ExportsView
	imports  *ImportsView
	filename string
	source   []byte
}

// ParseModule parses code and wraps it in a Module. Without WithFilename
// or WithDialect the code is parsed as TypeScript, which also accepts
// plain JavaScript.
func ParseModule(ctx context.Context, code string, opts ...Option) (*Module, error) {
	cfg := newSettings(opts)
	source := []byte(code)

	filename := cfg.filename
	if filename == "" {
		filename = "<module>"
	}

	program, err := cfg.parser.Parse(ctx, filename, source)
	if err != nil {
		return nil, fmt.Errorf("parse module: %w", err)
	}

	return newModule(newContext(cfg), program, filename, source), nil
}

// NewModule wraps an existing Program node.
func NewModule(program *jsast.Node, opts ...Option) *Module {
	cfg := newSettings(opts)

	var source []byte
	if program.Orig != nil {
		source = program.Orig.Source
	}

	return newModule(newContext(cfg), program, cfg.filename, source)
}

func newModule(viewCtx *Context, program *jsast.Node, filename string, source []byte) *Module {
	mod := &Module{ctx: viewCtx, program: program, filename: filename, source: source}
	mod.exports = &ExportsView{mod: mod}
	mod.imports = &ImportsView{mod: mod}
	viewCtx.module = mod
	viewCtx.cache[program] = mod

	return mod
}

// Kind returns KindModule.
func (mod *Module) Kind() Kind { return KindModule }

// Node returns the Program node.
func (mod *Module) Node() *jsast.Node { return mod.program }

// Program returns the Program node.
func (mod *Module) Program() *jsast.Node { return mod.program }

// Source returns the text the module was parsed from.
func (mod *Module) Source() string { return string(mod.source) }

// Filename returns the module name given at parse time.
func (mod *Module) Filename() string { return mod.filename }

// Context returns the module's view context.
func (mod *Module) Context() *Context { return mod.ctx }

// Exports returns the export registry.
func (mod *Module) Exports() *ExportsView { return mod.exports }

// Imports returns the import registry.
func (mod *Module) Imports() *ImportsView { return mod.imports }

// ViewOf returns the view of a node in this module.
func (mod *Module) ViewOf(targetNode *jsast.Node) (View, error) {
	return mod.ctx.ViewOf(targetNode)
}

// Snapshot returns the imports and exports as plain values.
func (mod *Module) Snapshot() (any, error) {
	exports, err := mod.exports.Snapshot()
	if err != nil {
		return nil, err
	}

	imports, err := mod.imports.Snapshot()
	if err != nil {
		return nil, err
	}

	return map[string]any{"imports": imports, "exports": exports}, nil
}

// GenerateOption configures Generate.
type GenerateOption func(*generateSettings)

type generateSettings struct {
	style     *codestyle.Profile
	overrides codestyle.Overrides
}

// WithStyle uses profile as is, skipping detection.
func WithStyle(profile codestyle.Profile) GenerateOption {
	return func(cfg *generateSettings) {
		cfg.style = &profile
	}
}

// WithOverrides pins style facets on top of detection.
func WithOverrides(overrides codestyle.Overrides) GenerateOption {
	return func(cfg *generateSettings) {
		cfg.overrides = overrides
	}
}

// GenerateResult is the regenerated code and the style used for it.
type GenerateResult struct {
	Code  string
	Style codestyle.Profile
}

// Generate prints the module. Unless WithStyle is given, the style is
// detected from the original source.
func (mod *Module) Generate(opts ...GenerateOption) (GenerateResult, error) {
	cfg := &generateSettings{}
	for _, opt := range opts {
		opt(cfg)
	}

	_, span := otel.Tracer(tracerName).Start(context.Background(), "codeshape.generate",
		trace.WithAttributes(attribute.String("module.file", mod.filename)))
	defer span.End()

	started := time.Now()

	style := codestyle.Detect(string(mod.source), cfg.overrides)
	if cfg.style != nil {
		style = *cfg.style
	}

	result, err := jsprint.Print(mod.program, jsprint.Options{Style: style})
	if err != nil {
		span.RecordError(err)

		return GenerateResult{}, fmt.Errorf("generate %s: %w", mod.filename, err)
	}

	mod.ctx.logger.Debug("generated module", "file", mod.filename,
		"bytes", len(result.Code), "elapsed", time.Since(started))

	return GenerateResult{Code: result.Code, Style: style}, nil
}
