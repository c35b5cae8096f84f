package jsast

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/codeshape/pkg/safeconv"
)

// Type is the kind tag of a Node.
type Type string

// Node type constants.
const (
	Program                  Type = "Program"
	ImportDeclaration        Type = "ImportDeclaration"
	ImportSpecifier          Type = "ImportSpecifier"
	ImportDefaultSpecifier   Type = "ImportDefaultSpecifier"
	ImportNamespaceSpecifier Type = "ImportNamespaceSpecifier"
	ExportDefaultDeclaration Type = "ExportDefaultDeclaration"
	ExportNamedDeclaration   Type = "ExportNamedDeclaration"
	ExportSpecifier          Type = "ExportSpecifier"
	VariableDeclaration      Type = "VariableDeclaration"
	VariableDeclarator       Type = "VariableDeclarator"
	FunctionDeclaration      Type = "FunctionDeclaration"
	ClassDeclaration         Type = "ClassDeclaration"
	ExpressionStatement      Type = "ExpressionStatement"
	BlockStatement           Type = "BlockStatement"
	ObjectExpression         Type = "ObjectExpression"
	Property                 Type = "Property"
	SpreadElement            Type = "SpreadElement"
	ArrayExpression          Type = "ArrayExpression"
	CallExpression           Type = "CallExpression"
	NewExpression            Type = "NewExpression"
	Arguments                Type = "Arguments"
	MemberExpression         Type = "MemberExpression"
	Identifier               Type = "Identifier"
	StringLiteral            Type = "StringLiteral"
	NumericLiteral           Type = "NumericLiteral"
	BooleanLiteral           Type = "BooleanLiteral"
	NullLiteral              Type = "NullLiteral"
	TemplateLiteral          Type = "TemplateLiteral"
	RegExpLiteral            Type = "RegExpLiteral"
	BinaryExpression         Type = "BinaryExpression"
	LogicalExpression        Type = "LogicalExpression"
	UnaryExpression          Type = "UnaryExpression"
	FunctionExpression       Type = "FunctionExpression"
	ArrowFunctionExpression  Type = "ArrowFunctionExpression"
	Params                   Type = "Params"
	ParenthesizedExpression  Type = "ParenthesizedExpression"
	TSAsExpression           Type = "TSAsExpression"
	TSSatisfiesExpression    Type = "TSSatisfiesExpression"
	Opaque                   Type = "Opaque"
)

// Property keys used in Node.Props.
const (
	PropComputed  = "computed"
	PropShorthand = "shorthand"
	PropMethod    = "method"
	PropAsync     = "async"
	PropOptional  = "optional"
	PropRaw       = "raw"
	PropSource    = "source"
)

// Positions represents the byte and line/col offsets for a node.
// All fields are 1-based except StartOffset/EndOffset, which are byte offsets.
type Positions struct {
	StartLine   uint `json:"start_line,omitempty"`
	StartCol    uint `json:"start_col,omitempty"`
	StartOffset uint `json:"start_offset,omitempty"`
	EndLine     uint `json:"end_line,omitempty"`
	EndCol      uint `json:"end_col,omitempty"`
	EndOffset   uint `json:"end_offset,omitempty"`
}

// NewPositions creates a Positions value.
func NewPositions(startLine, startCol, startOffset, endLine, endCol, endOffset uint) *Positions {
	return &Positions{
		StartLine:   startLine,
		StartCol:    startCol,
		StartOffset: startOffset,
		EndLine:     endLine,
		EndCol:      endCol,
		EndOffset:   endOffset,
	}
}

// Comment is a comment attached before a node. Text excludes the
// comment delimiters.
type Comment struct {
	Text  string `json:"text"`
	Block bool   `json:"block,omitempty"`
}

// Origin records a node as it was parsed.
type Origin struct {
	Source   []byte
	Token    string
	Children []*Node
	Comments []Comment
	// LeadStart is the offset where the leading comments begin. It equals
	// Pos.StartOffset when the node had none.
	LeadStart uint
}

// Node is a JavaScript syntax node. See the package documentation for
// the child layout of each Type.
type Node struct {
	Type     Type              `json:"type"`
	Token    string            `json:"token,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*Node           `json:"children,omitempty"`
	Comments []Comment         `json:"comments,omitempty"`
	Pos      *Positions        `json:"pos,omitempty"`
	Orig     *Origin           `json:"-"`
}

// New creates a detached node with the given type, token and children.
func New(nodeType Type, token string, children ...*Node) *Node {
	return &Node{Type: nodeType, Token: token, Children: children}
}

// NewIdentifier creates an Identifier node.
func NewIdentifier(name string) *Node {
	return New(Identifier, name)
}

// NewString creates a StringLiteral node holding value.
func NewString(value string) *Node {
	return New(StringLiteral, value)
}

// Child returns the child at index or nil when out of range.
func (targetNode *Node) Child(index int) *Node {
	if targetNode == nil || index < 0 || index >= len(targetNode.Children) {
		return nil
	}

	return targetNode.Children[index]
}

// Prop returns the named property or the empty string.
func (targetNode *Node) Prop(key string) string {
	if targetNode == nil || targetNode.Props == nil {
		return ""
	}

	return targetNode.Props[key]
}

// Flag reports whether the named property is set to "true".
func (targetNode *Node) Flag(key string) bool {
	return targetNode.Prop(key) == "true"
}

// SetProp sets a property. An empty value removes it.
func (targetNode *Node) SetProp(key, value string) {
	if value == "" {
		delete(targetNode.Props, key)

		return
	}

	if targetNode.Props == nil {
		targetNode.Props = make(map[string]string)
	}

	targetNode.Props[key] = value
}

// SetFlag sets or clears a boolean property.
func (targetNode *Node) SetFlag(key string, on bool) {
	if on {
		targetNode.SetProp(key, "true")

		return
	}

	targetNode.SetProp(key, "")
}

// AddChild appends a child node.
func (targetNode *Node) AddChild(child *Node) {
	targetNode.Children = append(targetNode.Children, child)
}

// InsertChild inserts child at index, shifting later children.
func (targetNode *Node) InsertChild(index int, child *Node) {
	targetNode.Children = slices.Insert(targetNode.Children, index, child)
}

// RemoveChildAt removes and returns the child at index.
func (targetNode *Node) RemoveChildAt(index int) *Node {
	removed := targetNode.Children[index]
	targetNode.Children = slices.Delete(targetNode.Children, index, index+1)

	return removed
}

// RemoveChild removes the first occurrence of the given child node.
// Returns true if the child was found and removed.
func (targetNode *Node) RemoveChild(child *Node) bool {
	idx := targetNode.IndexOf(child)
	if idx < 0 {
		return false
	}

	targetNode.RemoveChildAt(idx)

	return true
}

// ReplaceChild replaces the first occurrence of old in Children with replacement.
// Returns true if replaced.
func (targetNode *Node) ReplaceChild(old, replacement *Node) bool {
	idx := targetNode.IndexOf(old)
	if idx < 0 {
		return false
	}

	targetNode.Children[idx] = replacement

	return true
}

// IndexOf returns the index of child in Children, or -1.
func (targetNode *Node) IndexOf(child *Node) int {
	for idx, candidate := range targetNode.Children {
		if candidate == child {
			return idx
		}
	}

	return -1
}

// Find returns all nodes in the tree (including root) for which predicate(node) is true.
// Traversal is pre-order and skips holes. Returns nil if n is nil.
func (targetNode *Node) Find(predicate func(*Node) bool) []*Node {
	var result []*Node

	targetNode.VisitPreOrder(func(visited *Node) {
		if predicate(visited) {
			result = append(result, visited)
		}
	})

	return result
}

// VisitPreOrder visits all nodes in pre-order (root, then children left-to-right).
func (targetNode *Node) VisitPreOrder(fn func(*Node)) {
	if targetNode == nil {
		return
	}

	stack := []*Node{targetNode}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn(curr)

		for idx := len(curr.Children) - 1; idx >= 0; idx-- {
			if curr.Children[idx] != nil {
				stack = append(stack, curr.Children[idx])
			}
		}
	}
}

// Contains reports whether target is reachable from the node.
func (targetNode *Node) Contains(target *Node) bool {
	found := false

	targetNode.VisitPreOrder(func(visited *Node) {
		if visited == target {
			found = true
		}
	})

	return found
}

// Text returns the original source text of the node, or "" for
// synthesized nodes.
func (targetNode *Node) Text() string {
	if targetNode == nil || targetNode.Orig == nil || targetNode.Pos == nil {
		return ""
	}

	span, ok := safeconv.Span(targetNode.Orig.Source, targetNode.Pos.StartOffset, targetNode.Pos.EndOffset)
	if !ok {
		return ""
	}

	return string(span)
}

// Clone returns a deep copy of the tree. Origins are carried over and
// re-pointed at the copied children, so an unedited clone prints exactly
// like the original.
func (targetNode *Node) Clone() *Node {
	return cloneNode(targetNode)
}

func cloneNode(targetNode *Node) *Node {
	if targetNode == nil {
		return nil
	}

	nodeCopy := &Node{
		Type:     targetNode.Type,
		Token:    targetNode.Token,
		Props:    maps.Clone(targetNode.Props),
		Comments: slices.Clone(targetNode.Comments),
	}

	if targetNode.Pos != nil {
		pos := *targetNode.Pos
		nodeCopy.Pos = &pos
	}

	mapping := make(map[*Node]*Node, len(targetNode.Children))

	if targetNode.Children != nil {
		nodeCopy.Children = make([]*Node, len(targetNode.Children))

		for idx, child := range targetNode.Children {
			nodeCopy.Children[idx] = cloneNode(child)
			mapping[child] = nodeCopy.Children[idx]
		}
	}

	if targetNode.Orig != nil {
		origin := *targetNode.Orig
		origin.Comments = slices.Clone(origin.Comments)
		origin.Children = make([]*Node, len(targetNode.Orig.Children))

		for idx, child := range targetNode.Orig.Children {
			if mapped, ok := mapping[child]; ok {
				origin.Children[idx] = mapped
			} else {
				origin.Children[idx] = child
			}
		}

		nodeCopy.Orig = &origin
	}

	return nodeCopy
}

// String returns a compact description of the node.
func (targetNode *Node) String() string {
	if targetNode == nil {
		return "nil"
	}

	var buf strings.Builder

	buf.WriteString("Node{Type:")
	buf.WriteString(string(targetNode.Type))

	if targetNode.Token != "" {
		buf.WriteString(",Token:")
		buf.WriteString(targetNode.Token)
	}

	if len(targetNode.Props) > 0 {
		fmt.Fprintf(&buf, ",Props:%v", targetNode.Props)
	}

	if len(targetNode.Children) > 0 {
		buf.WriteString(",Children:")
		buf.WriteString(strconv.Itoa(len(targetNode.Children)))
	}

	buf.WriteString("}")

	return buf.String()
}

// reservedWords cannot be used as bare binding names.
var reservedWords = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table.
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "enum": true,
	"await": true, "null": true, "true": true, "false": true,
}

// IsIdentifierName reports whether name can be written as a bare property
// key.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}

	for idx, r := range name {
		switch {
		case r == '$' || r == '_' || unicode.IsLetter(r):
		case idx > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return utf8.ValidString(name)
}

// IsBindingName reports whether name is a valid identifier that is not a
// reserved word.
func IsBindingName(name string) bool {
	return IsIdentifierName(name) && !reservedWords[name]
}
