package jsparse

import (
	"slices"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
	"github.com/Sumatoshi-tech/codeshape/pkg/safeconv"
)

// Tree-sitter node kinds used by the converter.
const (
	tsComment        = "comment"
	tsIdentifier     = "identifier"
	tsString         = "string"
	tsTemplateString = "template_string"
	tsSubstitution   = "template_substitution"
)

// converter walks a tree-sitter tree and builds the jsast tree. Every node
// it returns is sealed with an Origin pointing at source.
type converter struct {
	source []byte
}

func (conv *converter) newNode(tsNode sitter.Node, nodeType jsast.Type, token string) *jsast.Node {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	return &jsast.Node{
		Type:  nodeType,
		Token: token,
		Pos: jsast.NewPositions(
			start.Row+1, start.Column+1, tsNode.StartByte(),
			end.Row+1, end.Column+1, tsNode.EndByte(),
		),
	}
}

// seal snapshots the node as parsed.
func (conv *converter) seal(target *jsast.Node) *jsast.Node {
	target.Orig = &jsast.Origin{
		Source:    conv.source,
		Token:     target.Token,
		Children:  slices.Clone(target.Children),
		Comments:  slices.Clone(target.Comments),
		LeadStart: target.Pos.StartOffset,
	}

	return target
}

func (conv *converter) text(tsNode sitter.Node) string {
	span, ok := safeconv.Span(conv.source, tsNode.StartByte(), tsNode.EndByte())
	if !ok {
		return ""
	}

	return string(span)
}

func (conv *converter) field(tsNode sitter.Node, name string) (sitter.Node, bool) {
	child := tsNode.ChildByFieldName(name)

	return child, !child.IsNull()
}

func children(tsNode sitter.Node) []sitter.Node {
	result := make([]sitter.Node, 0, tsNode.ChildCount())

	for idx := range tsNode.ChildCount() {
		result = append(result, tsNode.Child(idx))
	}

	return result
}

func namedChildren(tsNode sitter.Node) []sitter.Node {
	result := make([]sitter.Node, 0, tsNode.NamedChildCount())

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.Type() != tsComment {
			result = append(result, child)
		}
	}

	return result
}

func hasToken(tsNode sitter.Node, token string) bool {
	for _, child := range children(tsNode) {
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}

	return false
}

func (conv *converter) opaque(tsNode sitter.Node) *jsast.Node {
	return conv.seal(conv.newNode(tsNode, jsast.Opaque, tsNode.Type()))
}

// list converts the named children of tsNode with convert, attaching
// comments that start on their own line to the element that follows them.
func (conv *converter) list(tsNode sitter.Node, convert func(sitter.Node) *jsast.Node) []*jsast.Node {
	var (
		items    []*jsast.Node
		pending  []jsast.Comment
		leadFrom uint
		lastRow  uint
		hasLast  bool
	)

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)

		if child.Type() == tsComment {
			if hasLast && child.StartPoint().Row == lastRow {
				continue
			}

			if len(pending) == 0 {
				leadFrom = child.StartByte()
			}

			pending = append(pending, conv.comment(child))

			continue
		}

		item := convert(child)
		if item == nil {
			continue
		}

		if len(pending) > 0 {
			item.Comments = pending
			item.Orig.Comments = slices.Clone(pending)
			item.Orig.LeadStart = leadFrom
			pending = nil
		}

		items = append(items, item)
		lastRow = child.EndPoint().Row
		hasLast = true
	}

	return items
}

func (conv *converter) comment(tsNode sitter.Node) jsast.Comment {
	raw := conv.text(tsNode)

	if body, ok := strings.CutPrefix(raw, "//"); ok {
		return jsast.Comment{Text: strings.TrimSpace(body)}
	}

	body := strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")

	return jsast.Comment{Text: strings.TrimSpace(body), Block: true}
}

func (conv *converter) program(root sitter.Node) *jsast.Node {
	program := &jsast.Node{
		Type: jsast.Program,
		Pos:  jsast.NewPositions(1, 1, 0, root.EndPoint().Row+1, root.EndPoint().Column+1, safeconv.MustIntToUint(len(conv.source))),
	}
	program.Children = conv.list(root, conv.statement)

	return conv.seal(program)
}

func (conv *converter) statement(tsNode sitter.Node) *jsast.Node {
	switch tsNode.Type() {
	case "import_statement":
		return conv.importDeclaration(tsNode)
	case "export_statement":
		return conv.exportDeclaration(tsNode)
	case "lexical_declaration", "variable_declaration":
		return conv.variableDeclaration(tsNode)
	case "expression_statement":
		stmt := conv.newNode(tsNode, jsast.ExpressionStatement, "")

		named := namedChildren(tsNode)
		if len(named) == 0 {
			return conv.opaque(tsNode)
		}

		stmt.Children = []*jsast.Node{conv.expression(named[0])}

		return conv.seal(stmt)
	case "function_declaration", "generator_function_declaration":
		return conv.namedDeclaration(tsNode, jsast.FunctionDeclaration)
	case "class_declaration", "abstract_class_declaration":
		return conv.namedDeclaration(tsNode, jsast.ClassDeclaration)
	case "statement_block":
		block := conv.newNode(tsNode, jsast.BlockStatement, "")
		block.Children = conv.list(tsNode, conv.statement)

		return conv.seal(block)
	default:
		return conv.opaque(tsNode)
	}
}

func (conv *converter) namedDeclaration(tsNode sitter.Node, nodeType jsast.Type) *jsast.Node {
	name := ""
	if nameNode, ok := conv.field(tsNode, "name"); ok {
		name = conv.text(nameNode)
	}

	return conv.seal(conv.newNode(tsNode, nodeType, name))
}

func (conv *converter) importDeclaration(tsNode sitter.Node) *jsast.Node {
	if hasToken(tsNode, "type") {
		return conv.opaque(tsNode)
	}

	decl := conv.newNode(tsNode, jsast.ImportDeclaration, "")

	var (
		source     *jsast.Node
		specifiers []*jsast.Node
	)

	for _, child := range namedChildren(tsNode) {
		switch child.Type() {
		case tsString:
			source = conv.expression(child)
		case "import_clause":
			specifiers = append(specifiers, conv.importClause(child)...)
		}
	}

	if source == nil {
		return conv.opaque(tsNode)
	}

	decl.Children = append([]*jsast.Node{source}, specifiers...)

	return conv.seal(decl)
}

func (conv *converter) importClause(tsNode sitter.Node) []*jsast.Node {
	var specifiers []*jsast.Node

	for _, child := range namedChildren(tsNode) {
		switch child.Type() {
		case tsIdentifier:
			spec := conv.newNode(child, jsast.ImportDefaultSpecifier, "")
			spec.Children = []*jsast.Node{conv.identifier(child)}
			specifiers = append(specifiers, conv.seal(spec))
		case "namespace_import":
			spec := conv.newNode(child, jsast.ImportNamespaceSpecifier, "")

			for _, inner := range namedChildren(child) {
				if inner.Type() == tsIdentifier {
					spec.Children = []*jsast.Node{conv.identifier(inner)}
				}
			}

			specifiers = append(specifiers, conv.seal(spec))
		case "named_imports":
			for _, inner := range namedChildren(child) {
				if inner.Type() == "import_specifier" {
					specifiers = append(specifiers, conv.importSpecifier(inner))
				}
			}
		}
	}

	return specifiers
}

func (conv *converter) importSpecifier(tsNode sitter.Node) *jsast.Node {
	spec := conv.newNode(tsNode, jsast.ImportSpecifier, "")

	nameNode, _ := conv.field(tsNode, "name")
	imported := conv.moduleExportName(nameNode)

	local := imported
	if aliasNode, ok := conv.field(tsNode, "alias"); ok {
		local = conv.identifier(aliasNode)
	} else {
		local = conv.identifier(nameNode)
		spec.SetFlag(jsast.PropShorthand, true)
	}

	spec.Children = []*jsast.Node{imported, local}

	return conv.seal(spec)
}

// moduleExportName converts an import/export name, which may be a string
// literal in `import { "a-b" as ab }`.
func (conv *converter) moduleExportName(tsNode sitter.Node) *jsast.Node {
	if tsNode.Type() == tsString {
		ident := conv.newNode(tsNode, jsast.Identifier, cookString(conv.text(tsNode)))

		return conv.seal(ident)
	}

	return conv.identifier(tsNode)
}

func (conv *converter) exportDeclaration(tsNode sitter.Node) *jsast.Node {
	if hasToken(tsNode, "type") || hasToken(tsNode, "=") || hasToken(tsNode, "*") {
		return conv.opaque(tsNode)
	}

	if hasToken(tsNode, "default") {
		target, ok := conv.field(tsNode, "declaration")
		if !ok {
			target, ok = conv.field(tsNode, "value")
		}

		if !ok {
			return conv.opaque(tsNode)
		}

		decl := conv.newNode(tsNode, jsast.ExportDefaultDeclaration, "")

		if strings.HasSuffix(target.Type(), "_declaration") {
			decl.Children = []*jsast.Node{conv.statement(target)}
		} else {
			decl.Children = []*jsast.Node{conv.expression(target)}
		}

		return conv.seal(decl)
	}

	decl := conv.newNode(tsNode, jsast.ExportNamedDeclaration, "")

	if target, ok := conv.field(tsNode, "declaration"); ok {
		decl.Children = []*jsast.Node{conv.statement(target)}

		return conv.seal(decl)
	}

	decl.Children = []*jsast.Node{nil}

	for _, child := range namedChildren(tsNode) {
		switch child.Type() {
		case "export_clause":
			for _, inner := range namedChildren(child) {
				if inner.Type() == "export_specifier" {
					decl.Children = append(decl.Children, conv.exportSpecifier(inner))
				}
			}
		case tsString:
			decl.SetProp(jsast.PropSource, cookString(conv.text(child)))
		}
	}

	return conv.seal(decl)
}

func (conv *converter) exportSpecifier(tsNode sitter.Node) *jsast.Node {
	spec := conv.newNode(tsNode, jsast.ExportSpecifier, "")

	nameNode, _ := conv.field(tsNode, "name")
	local := conv.moduleExportName(nameNode)

	var exported *jsast.Node
	if aliasNode, ok := conv.field(tsNode, "alias"); ok {
		exported = conv.moduleExportName(aliasNode)
	} else {
		exported = conv.moduleExportName(nameNode)
		spec.SetFlag(jsast.PropShorthand, true)
	}

	spec.Children = []*jsast.Node{local, exported}

	return conv.seal(spec)
}

func (conv *converter) variableDeclaration(tsNode sitter.Node) *jsast.Node {
	kind := "var"

	all := children(tsNode)
	if len(all) > 0 && !all[0].IsNamed() {
		kind = all[0].Type()
	}

	decl := conv.newNode(tsNode, jsast.VariableDeclaration, kind)

	for _, child := range namedChildren(tsNode) {
		if child.Type() != "variable_declarator" {
			continue
		}

		declarator := conv.newNode(child, jsast.VariableDeclarator, "")

		var id, init *jsast.Node

		if nameNode, ok := conv.field(child, "name"); ok {
			id = conv.pattern(nameNode)
		}

		if valueNode, ok := conv.field(child, "value"); ok {
			init = conv.expression(valueNode)
		}

		declarator.Children = []*jsast.Node{id, init}
		decl.Children = append(decl.Children, conv.seal(declarator))
	}

	return conv.seal(decl)
}

func (conv *converter) pattern(tsNode sitter.Node) *jsast.Node {
	if tsNode.Type() == tsIdentifier {
		return conv.identifier(tsNode)
	}

	return conv.opaque(tsNode)
}

func (conv *converter) identifier(tsNode sitter.Node) *jsast.Node {
	return conv.seal(conv.newNode(tsNode, jsast.Identifier, conv.text(tsNode)))
}

//nolint:cyclop,funlen,gocyclo // flat dispatch over expression kinds.
func (conv *converter) expression(tsNode sitter.Node) *jsast.Node {
	switch tsNode.Type() {
	case tsIdentifier, "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "undefined", "this", "super":
		return conv.identifier(tsNode)
	case tsString:
		lit := conv.newNode(tsNode, jsast.StringLiteral, cookString(conv.text(tsNode)))
		lit.SetProp(jsast.PropRaw, conv.text(tsNode))

		return conv.seal(lit)
	case tsTemplateString:
		return conv.templateString(tsNode)
	case "number":
		return conv.seal(conv.newNode(tsNode, jsast.NumericLiteral, conv.text(tsNode)))
	case "true", "false":
		return conv.seal(conv.newNode(tsNode, jsast.BooleanLiteral, tsNode.Type()))
	case "null":
		return conv.seal(conv.newNode(tsNode, jsast.NullLiteral, "null"))
	case "regex":
		return conv.seal(conv.newNode(tsNode, jsast.RegExpLiteral, conv.text(tsNode)))
	case "object":
		obj := conv.newNode(tsNode, jsast.ObjectExpression, "")
		obj.Children = conv.list(tsNode, conv.objectMember)

		return conv.seal(obj)
	case "array":
		return conv.array(tsNode)
	case "call_expression":
		return conv.call(tsNode)
	case "new_expression":
		return conv.newExpression(tsNode)
	case "member_expression":
		return conv.member(tsNode, "property", false)
	case "subscript_expression":
		return conv.member(tsNode, "index", true)
	case "binary_expression":
		return conv.binary(tsNode)
	case "unary_expression":
		return conv.unary(tsNode)
	case "parenthesized_expression":
		return conv.wrapper(tsNode, jsast.ParenthesizedExpression)
	case "as_expression":
		return conv.wrapper(tsNode, jsast.TSAsExpression)
	case "satisfies_expression":
		return conv.wrapper(tsNode, jsast.TSSatisfiesExpression)
	case "spread_element":
		return conv.wrapper(tsNode, jsast.SpreadElement)
	case "arrow_function":
		return conv.arrow(tsNode)
	case "function_expression", "function", "generator_function":
		return conv.function(tsNode, tsNode)
	default:
		return conv.opaque(tsNode)
	}
}

func (conv *converter) templateString(tsNode sitter.Node) *jsast.Node {
	for _, child := range namedChildren(tsNode) {
		if child.Type() == tsSubstitution {
			return conv.opaque(tsNode)
		}
	}

	lit := conv.newNode(tsNode, jsast.TemplateLiteral, cookString(conv.text(tsNode)))
	lit.SetProp(jsast.PropRaw, conv.text(tsNode))

	return conv.seal(lit)
}

func (conv *converter) objectMember(tsNode sitter.Node) *jsast.Node {
	switch tsNode.Type() {
	case "pair":
		prop := conv.newNode(tsNode, jsast.Property, "")
		keyNode, _ := conv.field(tsNode, "key")
		valueNode, _ := conv.field(tsNode, "value")

		prop.Children = []*jsast.Node{conv.propertyKey(prop, keyNode), conv.expression(valueNode)}

		return conv.seal(prop)
	case "shorthand_property_identifier":
		prop := conv.newNode(tsNode, jsast.Property, "")
		prop.SetFlag(jsast.PropShorthand, true)
		prop.Children = []*jsast.Node{conv.identifier(tsNode), conv.identifier(tsNode)}

		return conv.seal(prop)
	case "spread_element":
		return conv.wrapper(tsNode, jsast.SpreadElement)
	case "method_definition":
		prop := conv.newNode(tsNode, jsast.Property, "")
		prop.SetFlag(jsast.PropMethod, true)

		keyNode, _ := conv.field(tsNode, "name")
		prop.Children = []*jsast.Node{conv.propertyKey(prop, keyNode), conv.function(tsNode, tsNode)}

		return conv.seal(prop)
	default:
		return conv.opaque(tsNode)
	}
}

func (conv *converter) propertyKey(prop *jsast.Node, keyNode sitter.Node) *jsast.Node {
	if keyNode.Type() == "computed_property_name" {
		prop.SetFlag(jsast.PropComputed, true)

		named := namedChildren(keyNode)
		if len(named) == 0 {
			return conv.opaque(keyNode)
		}

		return conv.expression(named[0])
	}

	return conv.expression(keyNode)
}

func (conv *converter) array(tsNode sitter.Node) *jsast.Node {
	arr := conv.newNode(tsNode, jsast.ArrayExpression, "")
	sawElement := false

	for _, child := range children(tsNode) {
		switch {
		case child.Type() == tsComment:
		case child.Type() == ",":
			if !sawElement {
				arr.Children = append(arr.Children, nil)
			}

			sawElement = false
		case child.IsNamed():
			arr.Children = append(arr.Children, conv.expression(child))
			sawElement = true
		}
	}

	return conv.seal(arr)
}

func (conv *converter) arguments(tsNode sitter.Node) *jsast.Node {
	args := conv.newNode(tsNode, jsast.Arguments, "")

	for _, child := range namedChildren(tsNode) {
		args.Children = append(args.Children, conv.expression(child))
	}

	return conv.seal(args)
}

// emptyArguments stands in for the missing argument list of `new Foo`.
// It is a zero-width span at the end of the expression.
func (conv *converter) emptyArguments(tsNode sitter.Node) *jsast.Node {
	end := tsNode.EndPoint()
	args := &jsast.Node{
		Type: jsast.Arguments,
		Pos: jsast.NewPositions(
			end.Row+1, end.Column+1, tsNode.EndByte(),
			end.Row+1, end.Column+1, tsNode.EndByte(),
		),
	}

	return conv.seal(args)
}

func (conv *converter) call(tsNode sitter.Node) *jsast.Node {
	calleeNode, _ := conv.field(tsNode, "function")

	argsNode, ok := conv.field(tsNode, "arguments")
	if !ok || argsNode.Type() != "arguments" {
		return conv.opaque(tsNode)
	}

	call := conv.newNode(tsNode, jsast.CallExpression, "")
	call.SetFlag(jsast.PropOptional, hasChild(tsNode, "optional_chain"))
	call.Children = []*jsast.Node{conv.expression(calleeNode), conv.arguments(argsNode)}

	return conv.seal(call)
}

func (conv *converter) newExpression(tsNode sitter.Node) *jsast.Node {
	calleeNode, _ := conv.field(tsNode, "constructor")
	expr := conv.newNode(tsNode, jsast.NewExpression, "")

	args := conv.emptyArguments(tsNode)
	if argsNode, ok := conv.field(tsNode, "arguments"); ok {
		args = conv.arguments(argsNode)
	}

	expr.Children = []*jsast.Node{conv.expression(calleeNode), args}

	return conv.seal(expr)
}

func (conv *converter) member(tsNode sitter.Node, propertyField string, computed bool) *jsast.Node {
	objectNode, _ := conv.field(tsNode, "object")
	propertyNode, _ := conv.field(tsNode, propertyField)

	member := conv.newNode(tsNode, jsast.MemberExpression, "")
	member.SetFlag(jsast.PropComputed, computed)
	member.SetFlag(jsast.PropOptional, hasChild(tsNode, "optional_chain"))
	member.Children = []*jsast.Node{conv.expression(objectNode), conv.expression(propertyNode)}

	return conv.seal(member)
}

func (conv *converter) binary(tsNode sitter.Node) *jsast.Node {
	leftNode, _ := conv.field(tsNode, "left")
	rightNode, _ := conv.field(tsNode, "right")

	operator := ""
	if operatorNode, ok := conv.field(tsNode, "operator"); ok {
		operator = conv.text(operatorNode)
	}

	nodeType := jsast.BinaryExpression
	if operator == "&&" || operator == "||" || operator == "??" {
		nodeType = jsast.LogicalExpression
	}

	binary := conv.newNode(tsNode, nodeType, operator)
	binary.Children = []*jsast.Node{conv.expression(leftNode), conv.expression(rightNode)}

	return conv.seal(binary)
}

func (conv *converter) unary(tsNode sitter.Node) *jsast.Node {
	argumentNode, ok := conv.field(tsNode, "argument")
	operatorNode, hasOperator := conv.field(tsNode, "operator")

	if !ok || !hasOperator {
		return conv.opaque(tsNode)
	}

	unary := conv.newNode(tsNode, jsast.UnaryExpression, conv.text(operatorNode))
	unary.Children = []*jsast.Node{conv.expression(argumentNode)}

	return conv.seal(unary)
}

// wrapper converts nodes whose first named child is the wrapped
// expression; any further named children are kept opaque.
func (conv *converter) wrapper(tsNode sitter.Node, nodeType jsast.Type) *jsast.Node {
	named := namedChildren(tsNode)
	if len(named) == 0 {
		return conv.opaque(tsNode)
	}

	wrapped := conv.newNode(tsNode, nodeType, "")
	wrapped.Children = []*jsast.Node{conv.expression(named[0])}

	for _, rest := range named[1:] {
		wrapped.Children = append(wrapped.Children, conv.opaque(rest))
	}

	return conv.seal(wrapped)
}

func (conv *converter) arrow(tsNode sitter.Node) *jsast.Node {
	arrow := conv.newNode(tsNode, jsast.ArrowFunctionExpression, "")
	arrow.SetFlag(jsast.PropAsync, hasToken(tsNode, "async"))

	var params *jsast.Node

	if paramNode, ok := conv.field(tsNode, "parameter"); ok {
		params = conv.newNode(paramNode, jsast.Params, "")
		params.Children = []*jsast.Node{conv.pattern(paramNode)}
		conv.seal(params)
	} else if paramsNode, ok := conv.field(tsNode, "parameters"); ok {
		params = conv.parameters(paramsNode)
	}

	bodyNode, _ := conv.field(tsNode, "body")

	var body *jsast.Node
	if bodyNode.Type() == "statement_block" {
		body = conv.statement(bodyNode)
	} else {
		body = conv.expression(bodyNode)
	}

	arrow.Children = []*jsast.Node{params, body}

	return conv.seal(arrow)
}

// function converts function expressions and object methods. For methods
// the resulting node spans from the parameter list to the end of the body.
func (conv *converter) function(tsNode, spanNode sitter.Node) *jsast.Node {
	fn := conv.newNode(spanNode, jsast.FunctionExpression, "")
	fn.SetFlag(jsast.PropAsync, hasToken(tsNode, "async"))

	if tsNode.Type() == "method_definition" {
		fn.SetFlag(jsast.PropMethod, true)
	} else if nameNode, ok := conv.field(tsNode, "name"); ok {
		fn.Token = conv.text(nameNode)
	}

	var params *jsast.Node
	if paramsNode, ok := conv.field(tsNode, "parameters"); ok {
		params = conv.parameters(paramsNode)

		if tsNode.Type() == "method_definition" {
			fn.Pos.StartOffset = paramsNode.StartByte()
			fn.Pos.StartLine = paramsNode.StartPoint().Row + 1
			fn.Pos.StartCol = paramsNode.StartPoint().Column + 1
		}
	}

	var body *jsast.Node
	if bodyNode, ok := conv.field(tsNode, "body"); ok {
		body = conv.statement(bodyNode)
	}

	fn.Children = []*jsast.Node{params, body}

	return conv.seal(fn)
}

func (conv *converter) parameters(tsNode sitter.Node) *jsast.Node {
	params := conv.newNode(tsNode, jsast.Params, "")

	for _, child := range namedChildren(tsNode) {
		params.Children = append(params.Children, conv.parameter(child))
	}

	return conv.seal(params)
}

// parameter unwraps TypeScript required_parameter nodes that only hold a
// plain identifier.
func (conv *converter) parameter(tsNode sitter.Node) *jsast.Node {
	if tsNode.Type() == "required_parameter" {
		named := namedChildren(tsNode)
		if len(named) == 1 && named[0].Type() == tsIdentifier {
			return conv.identifier(named[0])
		}
	}

	return conv.pattern(tsNode)
}

func hasChild(tsNode sitter.Node, kind string) bool {
	for _, child := range children(tsNode) {
		if child.Type() == kind {
			return true
		}
	}

	return false
}
