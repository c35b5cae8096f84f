// Package codestyle infers the formatting conventions of a JavaScript or
// TypeScript source file so that regenerated code blends in.
package codestyle

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Quote styles.
const (
	QuoteSingle = "single"
	QuoteDouble = "double"
)

// Arrow parameter styles.
const (
	ArrowParensAlways = "always"
	ArrowParensAvoid  = "avoid"
)

// Baseline values used when the source gives no signal.
const (
	DefaultTabWidth   = 2
	DefaultWrapColumn = 80
)

// Profile is the detected formatting style of a source file.
type Profile struct {
	Quote         string `json:"quote"          yaml:"quote"`
	ArrowParens   string `json:"arrow_parens"   yaml:"arrow_parens"`
	TabWidth      int    `json:"tab_width"      yaml:"tab_width"`
	WrapColumn    int    `json:"wrap_column"    yaml:"wrap_column"`
	UseTabs       bool   `json:"use_tabs"       yaml:"use_tabs"`
	UseSemi       bool   `json:"use_semi"       yaml:"use_semi"`
	TrailingComma bool   `json:"trailing_comma" yaml:"trailing_comma"`
}

// Overrides pins individual facets. Nil fields are detected.
type Overrides struct {
	Quote         *string
	ArrowParens   *string
	TabWidth      *int
	WrapColumn    *int
	UseTabs       *bool
	UseSemi       *bool
	TrailingComma *bool
}

// DefaultProfile returns the baseline style.
func DefaultProfile() Profile {
	return Profile{
		Quote:       QuoteDouble,
		ArrowParens: ArrowParensAlways,
		TabWidth:    DefaultTabWidth,
		WrapColumn:  DefaultWrapColumn,
		UseSemi:     true,
	}
}

// Indent returns the string for one indentation level.
func (profile Profile) Indent() string {
	if profile.UseTabs {
		return "\t"
	}

	width := profile.TabWidth
	if width <= 0 {
		width = DefaultTabWidth
	}

	return strings.Repeat(" ", width)
}

var (
	singleQuoted   = regexp.MustCompile(`'([^'\\\n]|\\.){0,40}'`) //nolint:gochecknoglobals // compiled once.
	doubleQuoted   = regexp.MustCompile(`"([^"\\\n]|\\.){0,40}"`) //nolint:gochecknoglobals // compiled once.
	parenArrow     = regexp.MustCompile(`\(\s*[\w$]+\s*\)\s*=>`)  //nolint:gochecknoglobals // compiled once.
	bareArrow      = regexp.MustCompile(`(^|[^\w$.)])[\w$]+\s*=>`) //nolint:gochecknoglobals // compiled once.
	closingBracket = regexp.MustCompile(`^\s*[}\])]`)             //nolint:gochecknoglobals // compiled once.
)

// counters accumulates the per-facet votes while scanning lines.
type counters struct {
	minIndent     int
	tabs          int
	semi          int
	single        int
	double        int
	arrowParens   int
	trailingComma int
	maxLine       int
}

// Detect scans source once and returns its style. Overrides always win.
func Detect(source string, overrides Overrides) Profile {
	votes := scan(source)
	profile := DefaultProfile()

	if votes.minIndent > 0 {
		profile.TabWidth = votes.minIndent
	}

	profile.UseTabs = votes.tabs > 0
	profile.UseSemi = votes.semi >= 0

	if votes.single > votes.double {
		profile.Quote = QuoteSingle
	}

	if votes.arrowParens < 0 {
		profile.ArrowParens = ArrowParensAvoid
	}

	profile.TrailingComma = votes.trailingComma > 0

	// The longest line widens the wrap column but never narrows it below
	// DefaultWrapColumn.
	if votes.maxLine > 0 {
		profile.WrapColumn = max(votes.maxLine, DefaultWrapColumn)
	}

	return apply(profile, overrides)
}

func apply(profile Profile, overrides Overrides) Profile {
	if overrides.Quote != nil {
		profile.Quote = *overrides.Quote
	}

	if overrides.ArrowParens != nil {
		profile.ArrowParens = *overrides.ArrowParens
	}

	if overrides.TabWidth != nil {
		profile.TabWidth = *overrides.TabWidth
	}

	if overrides.WrapColumn != nil {
		profile.WrapColumn = *overrides.WrapColumn
	}

	if overrides.UseTabs != nil {
		profile.UseTabs = *overrides.UseTabs
	}

	if overrides.UseSemi != nil {
		profile.UseSemi = *overrides.UseSemi
	}

	if overrides.TrailingComma != nil {
		profile.TrailingComma = *overrides.TrailingComma
	}

	return profile
}

func scan(source string) counters {
	var (
		votes    counters
		previous string
	)

	for line := range strings.Lines(source) {
		line = strings.TrimRight(line, "\r\n")
		votes.maxLine = max(votes.maxLine, utf8.RuneCountInString(line))

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		votes.indent(line)

		if !isCommentLine(trimmed) {
			votes.semicolon(trimmed)
			votes.single += len(singleQuoted.FindAllStringIndex(trimmed, -1))
			votes.double += len(doubleQuoted.FindAllStringIndex(trimmed, -1))
			votes.arrowParens += len(parenArrow.FindAllStringIndex(trimmed, -1))
			votes.arrowParens -= len(bareArrow.FindAllStringIndex(trimmed, -1))

			if closingBracket.MatchString(line) && previous != "" {
				if strings.HasSuffix(previous, ",") {
					votes.trailingComma++
				} else if !strings.HasSuffix(previous, "{") && !strings.HasSuffix(previous, "[") &&
					!strings.HasSuffix(previous, "(") {
					votes.trailingComma--
				}
			}
		}

		previous = trimmed
	}

	return votes
}

func (votes *counters) indent(line string) {
	run := len(line) - len(strings.TrimLeft(line, " \t"))
	if run == 0 {
		return
	}

	if line[0] == '\t' {
		votes.tabs++

		return
	}

	votes.tabs--

	if votes.minIndent == 0 || run < votes.minIndent {
		votes.minIndent = run
	}
}

// semicolon votes for lines that end a statement. Lines that clearly
// continue onto the next line do not vote.
func (votes *counters) semicolon(trimmed string) {
	if strings.HasSuffix(trimmed, ";") {
		votes.semi++

		return
	}

	last := trimmed[len(trimmed)-1]
	if strings.IndexByte(",{[(:=+-*/&|?.<>", last) >= 0 {
		return
	}

	if strings.HasPrefix(trimmed, "}") && len(trimmed) == 1 {
		return
	}

	votes.semi--
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}
