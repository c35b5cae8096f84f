package jsparse

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"
)

// Dialect selects the grammar used to parse a module.
type Dialect string

// Supported dialects.
const (
	JavaScript Dialect = "javascript"
	TypeScript Dialect = "typescript"
	TSX        Dialect = "tsx"
)

// dialectFuncs maps dialects to their tree-sitter GetLanguage functions.
var dialectFuncs = map[Dialect]func() unsafe.Pointer{ //nolint:gochecknoglobals // read-only grammar table.
	JavaScript: javascript.GetLanguage,
	TypeScript: typescript.GetLanguage,
	TSX:        tsx.GetLanguage,
}

// extensionDialects resolves the common extensions without content sniffing.
var extensionDialects = map[string]Dialect{ //nolint:gochecknoglobals // read-only extension table.
	".js":  JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".jsx": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

var languageCache sync.Map

// language returns the tree-sitter Language for the dialect, or nil if not supported.
func language(dialect Dialect) *sitter.Language {
	if cached, ok := languageCache.Load(dialect); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := dialectFuncs[dialect]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(dialect, lang)

	return lang
}

// ParseDialect validates a dialect name. The empty string maps to JavaScript.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case "", JavaScript, "js":
		return JavaScript, nil
	case TypeScript, "ts":
		return TypeScript, nil
	case TSX:
		return TSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
}

// DetectDialect picks a dialect from the filename extension and falls back
// to linguist-style detection on the content. Unknown input is treated as
// JavaScript.
func DetectDialect(filename string, content []byte) Dialect {
	ext := strings.ToLower(filepath.Ext(filename))
	if dialect, ok := extensionDialects[ext]; ok {
		return dialect
	}

	switch enry.GetLanguage(filepath.Base(filename), content) {
	case "TypeScript":
		return TypeScript
	case "TSX":
		return TSX
	default:
		return JavaScript
	}
}
