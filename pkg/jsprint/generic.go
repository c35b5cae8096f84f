package jsprint

import (
	"strings"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// generic prints targetNode from its structure alone, using the style
// profile. Children are still rendered through render, so untouched
// descendants keep their original text.
//
//nolint:cyclop,funlen,gocyclo // flat dispatch over node types.
func (printer *printer) generic(targetNode *jsast.Node, indent string) string {
	switch targetNode.Type {
	case jsast.Program:
		return printer.statements(targetNode.Children, indent, false)
	case jsast.BlockStatement:
		if len(targetNode.Children) == 0 {
			return "{}"
		}

		return "{\n" + printer.statements(targetNode.Children, indent+printer.unit, true) + indent + "}"
	case jsast.ImportDeclaration:
		return printer.importDeclaration(targetNode, indent)
	case jsast.ImportSpecifier:
		imported := printer.render(targetNode.Child(0), indent)
		local := printer.render(targetNode.Child(1), indent)

		if imported == local {
			return local
		}

		return imported + " as " + local
	case jsast.ImportDefaultSpecifier:
		return printer.render(targetNode.Child(0), indent)
	case jsast.ImportNamespaceSpecifier:
		return "* as " + printer.render(targetNode.Child(0), indent)
	case jsast.ExportDefaultDeclaration:
		inner := targetNode.Child(0)
		text := "export default " + printer.render(inner, indent)

		if inner != nil && isDeclaration(inner) {
			return text
		}

		return text + printer.semi()
	case jsast.ExportNamedDeclaration:
		return printer.exportNamed(targetNode, indent)
	case jsast.ExportSpecifier:
		local := printer.render(targetNode.Child(0), indent)
		exported := printer.render(targetNode.Child(1), indent)

		if local == exported {
			return local
		}

		return local + " as " + exported
	case jsast.VariableDeclaration:
		declarators := make([]string, 0, len(targetNode.Children))
		for _, child := range targetNode.Children {
			declarators = append(declarators, printer.render(child, indent))
		}

		return targetNode.Token + " " + strings.Join(declarators, ", ") + printer.semi()
	case jsast.VariableDeclarator:
		text := printer.render(targetNode.Child(0), indent)
		if init := targetNode.Child(1); init != nil {
			text += " = " + printer.render(init, indent)
		}

		return text
	case jsast.ExpressionStatement:
		return printer.render(targetNode.Child(0), indent) + printer.semi()
	case jsast.ObjectExpression:
		return printer.object(targetNode, indent)
	case jsast.Property:
		return printer.property(targetNode, indent)
	case jsast.SpreadElement:
		return "..." + printer.render(targetNode.Child(0), indent)
	case jsast.ArrayExpression:
		return printer.sequence(targetNode.Children, "[", "]", indent)
	case jsast.Arguments:
		return printer.sequence(targetNode.Children, "(", ")", indent)
	case jsast.Params:
		return printer.params(targetNode, indent)
	case jsast.CallExpression:
		callee := printer.render(targetNode.Child(0), indent)
		if targetNode.Flag(jsast.PropOptional) {
			callee += "?."
		}

		return callee + printer.argumentList(targetNode.Child(1), indent)
	case jsast.NewExpression:
		return "new " + printer.render(targetNode.Child(0), indent) + printer.argumentList(targetNode.Child(1), indent)
	case jsast.MemberExpression:
		object := printer.render(targetNode.Child(0), indent)
		property := printer.render(targetNode.Child(1), indent)
		optional := targetNode.Flag(jsast.PropOptional)

		switch {
		case targetNode.Flag(jsast.PropComputed) && optional:
			return object + "?.[" + property + "]"
		case targetNode.Flag(jsast.PropComputed):
			return object + "[" + property + "]"
		case optional:
			return object + "?." + property
		default:
			return object + "." + property
		}
	case jsast.StringLiteral:
		return quoteString(targetNode.Token, printer.style.Quote)
	case jsast.TemplateLiteral:
		return quoteTemplate(targetNode.Token)
	case jsast.NullLiteral:
		return "null"
	case jsast.BinaryExpression, jsast.LogicalExpression:
		return printer.render(targetNode.Child(0), indent) + " " + targetNode.Token + " " +
			printer.render(targetNode.Child(1), indent)
	case jsast.UnaryExpression:
		operator := targetNode.Token
		if isWordOperator(operator) {
			operator += " "
		}

		return operator + printer.render(targetNode.Child(0), indent)
	case jsast.FunctionExpression:
		return printer.function(targetNode, indent)
	case jsast.ArrowFunctionExpression:
		text := printer.arrowParams(targetNode.Child(0), indent) + " => " + printer.render(targetNode.Child(1), indent)
		if targetNode.Flag(jsast.PropAsync) {
			return "async " + text
		}

		return text
	case jsast.ParenthesizedExpression:
		return "(" + printer.render(targetNode.Child(0), indent) + ")"
	case jsast.TSAsExpression:
		return printer.render(targetNode.Child(0), indent) + " as " + printer.render(targetNode.Child(1), indent)
	case jsast.TSSatisfiesExpression:
		return printer.render(targetNode.Child(0), indent) + " satisfies " + printer.render(targetNode.Child(1), indent)
	case jsast.FunctionDeclaration, jsast.ClassDeclaration, jsast.Opaque:
		if text := targetNode.Text(); text != "" {
			return text
		}

		return targetNode.Token
	default:
		// Identifier, NumericLiteral, BooleanLiteral, RegExpLiteral.
		return targetNode.Token
	}
}

func (printer *printer) statements(children []*jsast.Node, indent string, block bool) string {
	var buf strings.Builder

	for idx, child := range children {
		if idx > 0 && !block {
			buf.WriteString("\n")
		}

		buf.WriteString(indent)
		buf.WriteString(printer.renderLead(child, indent))

		if block {
			buf.WriteString("\n")
		}
	}

	if !block && len(children) > 0 {
		buf.WriteString("\n")
	}

	return buf.String()
}

func (printer *printer) importDeclaration(targetNode *jsast.Node, indent string) string {
	source := printer.render(targetNode.Child(0), indent)
	if len(targetNode.Children) < 2 {
		return "import " + source + printer.semi()
	}

	var (
		clauses []string
		named   []string
	)

	for _, spec := range targetNode.Children[1:] {
		if spec.Type == jsast.ImportSpecifier {
			named = append(named, printer.renderLead(spec, indent))

			continue
		}

		clauses = append(clauses, printer.render(spec, indent))
	}

	if len(named) > 0 {
		clauses = append(clauses, "{ "+strings.Join(named, ", ")+" }")
	}

	return "import " + strings.Join(clauses, ", ") + " from " + source + printer.semi()
}

func (printer *printer) exportNamed(targetNode *jsast.Node, indent string) string {
	if decl := targetNode.Child(0); decl != nil {
		return "export " + printer.render(decl, indent)
	}

	specifiers := make([]string, 0, len(targetNode.Children))
	for idx, spec := range targetNode.Children {
		if idx > 0 {
			specifiers = append(specifiers, printer.render(spec, indent))
		}
	}

	text := "export {}"
	if len(specifiers) > 0 {
		text = "export { " + strings.Join(specifiers, ", ") + " }"
	}

	if source := targetNode.Prop(jsast.PropSource); source != "" {
		text += " from " + quoteString(source, printer.style.Quote)
	}

	return text + printer.semi()
}

func (printer *printer) object(targetNode *jsast.Node, indent string) string {
	if len(targetNode.Children) == 0 {
		return "{}"
	}

	inner := indent + printer.unit

	var buf strings.Builder

	buf.WriteString("{\n")

	for idx, child := range targetNode.Children {
		buf.WriteString(inner)
		buf.WriteString(printer.renderLead(child, inner))

		if idx < len(targetNode.Children)-1 || printer.style.TrailingComma {
			buf.WriteString(",")
		}

		buf.WriteString("\n")
	}

	buf.WriteString(indent)
	buf.WriteString("}")

	return buf.String()
}

func (printer *printer) property(targetNode *jsast.Node, indent string) string {
	keyNode, valueNode := targetNode.Child(0), targetNode.Child(1)
	key := printer.propertyKey(targetNode, keyNode, indent)

	if targetNode.Flag(jsast.PropMethod) && valueNode != nil && valueNode.Type == jsast.FunctionExpression {
		text := key + printer.render(valueNode, indent)
		if valueNode.Flag(jsast.PropAsync) {
			return "async " + text
		}

		return text
	}

	if targetNode.Flag(jsast.PropShorthand) && valueNode != nil && keyNode != nil &&
		valueNode.Type == jsast.Identifier && keyNode.Type == jsast.Identifier && valueNode.Token == keyNode.Token {
		return key
	}

	return key + ": " + printer.render(valueNode, indent)
}

func (printer *printer) propertyKey(prop, keyNode *jsast.Node, indent string) string {
	if keyNode == nil {
		return ""
	}

	if prop.Flag(jsast.PropComputed) {
		return "[" + printer.render(keyNode, indent) + "]"
	}

	if keyNode.Type == jsast.StringLiteral && !keyNode.Parsed() && jsast.IsIdentifierName(keyNode.Token) {
		return keyNode.Token
	}

	return printer.render(keyNode, indent)
}

// sequence prints array elements or call arguments on one line when they
// fit, otherwise one per line.
func (printer *printer) sequence(children []*jsast.Node, open, closing, indent string) string {
	if len(children) == 0 {
		return open + closing
	}

	inline := make([]string, len(children))
	multiline := false

	for idx, child := range children {
		inline[idx] = printer.renderLead(child, indent)
		if strings.Contains(inline[idx], "\n") {
			multiline = true
		}
	}

	text := open + strings.Join(inline, ", ")
	if children[len(children)-1] == nil {
		text += ","
	}

	text += closing

	if !multiline && len(indent)+len(text) <= printer.style.WrapColumn {
		return text
	}

	if open == "(" && len(children) == 1 {
		return text
	}

	inner := indent + printer.unit

	var buf strings.Builder

	buf.WriteString(open)
	buf.WriteString("\n")

	for idx, child := range children {
		buf.WriteString(inner)
		buf.WriteString(printer.renderLead(child, inner))

		if idx < len(children)-1 || printer.style.TrailingComma || child == nil {
			buf.WriteString(",")
		}

		buf.WriteString("\n")
	}

	buf.WriteString(indent)
	buf.WriteString(closing)

	return buf.String()
}

func (printer *printer) argumentList(args *jsast.Node, indent string) string {
	if args == nil {
		return "()"
	}

	if args.Parsed() && args.Pos.StartOffset == args.Pos.EndOffset && len(args.Children) == 0 {
		return "()"
	}

	return printer.render(args, indent)
}

func (printer *printer) params(targetNode *jsast.Node, indent string) string {
	params := make([]string, 0, len(targetNode.Children))
	for _, child := range targetNode.Children {
		params = append(params, printer.render(child, indent))
	}

	return "(" + strings.Join(params, ", ") + ")"
}

func (printer *printer) arrowParams(params *jsast.Node, indent string) string {
	if params == nil {
		return "()"
	}

	if printer.style.ArrowParens == "avoid" && len(params.Children) == 1 &&
		params.Children[0] != nil && params.Children[0].Type == jsast.Identifier {
		return params.Children[0].Token
	}

	if params.Parsed() && params.Pristine(printer.memo) {
		return printer.render(params, indent)
	}

	return printer.params(params, indent)
}

func (printer *printer) function(targetNode *jsast.Node, indent string) string {
	params := "()"
	if paramsNode := targetNode.Child(0); paramsNode != nil {
		params = printer.render(paramsNode, indent)
	}

	body := printer.render(targetNode.Child(1), indent)
	if body == "" {
		body = "{}"
	}

	if targetNode.Flag(jsast.PropMethod) {
		return params + " " + body
	}

	text := "function"
	if targetNode.Token != "" {
		text += " " + targetNode.Token
	}

	text += params + " " + body

	if targetNode.Flag(jsast.PropAsync) {
		return "async " + text
	}

	return text
}

func isDeclaration(targetNode *jsast.Node) bool {
	switch targetNode.Type {
	case jsast.FunctionDeclaration, jsast.ClassDeclaration, jsast.VariableDeclaration:
		return true
	default:
		return false
	}
}

func isWordOperator(operator string) bool {
	switch operator {
	case "typeof", "void", "delete", "await":
		return true
	default:
		return false
	}
}
