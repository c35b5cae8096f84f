package view

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

const defaultExport = "default"

// ExportsView is the module's export registry. Rows are recomputed from
// the Program on every call.
type ExportsView struct {
	mod *Module
}

// Kind returns KindExports.
func (exports *ExportsView) Kind() Kind { return KindExports }

// Node returns the Program node.
func (exports *ExportsView) Node() *jsast.Node { return exports.mod.program }

// exportSlot locates one exported name in the tree.
type exportSlot struct {
	// statement is the top-level export statement.
	statement *jsast.Node
	// holder and index address the child that holds the value: the
	// declarator's init, the export default child, or the specifier.
	holder *jsast.Node
	// declarator is set for `export const name = ...` rows.
	declarator *jsast.Node
	// specifier is set for `export { local as name }` rows.
	specifier *jsast.Node
	name      string
	index     int
}

func (slot exportSlot) value() *jsast.Node {
	return slot.holder.Child(slot.index)
}

func (exports *ExportsView) slots() []exportSlot {
	var slots []exportSlot

	for _, statement := range exports.mod.program.Children {
		if statement == nil {
			continue
		}

		switch statement.Type {
		case jsast.ExportDefaultDeclaration:
			slots = append(slots, exports.resolve(exportSlot{
				name: defaultExport, statement: statement, holder: statement, index: 0,
			}))
		case jsast.ExportNamedDeclaration:
			slots = append(slots, exports.namedSlots(statement)...)
		}
	}

	return slots
}

func (exports *ExportsView) namedSlots(statement *jsast.Node) []exportSlot {
	decl := statement.Child(0)

	if decl == nil {
		var slots []exportSlot

		for _, spec := range statement.Children[1:] {
			exported := spec.Child(1)
			if exported == nil {
				continue
			}

			slot := exportSlot{name: exported.Token, statement: statement, holder: spec, index: 0, specifier: spec}
			if statement.Prop(jsast.PropSource) == "" {
				slot = exports.resolve(slot)
			}

			slots = append(slots, slot)
		}

		return slots
	}

	switch decl.Type {
	case jsast.VariableDeclaration:
		var slots []exportSlot

		for _, declarator := range decl.Children {
			id := declarator.Child(0)
			if id == nil || id.Type != jsast.Identifier {
				continue
			}

			slots = append(slots, exportSlot{
				name: id.Token, statement: statement, holder: declarator, index: 1, declarator: declarator,
			})
		}

		return slots
	case jsast.FunctionDeclaration, jsast.ClassDeclaration:
		return []exportSlot{{name: decl.Token, statement: statement, holder: statement, index: 0}}
	default:
		return nil
	}
}

// resolve follows an exported identifier to the initializer of the
// top-level variable it names.
func (exports *ExportsView) resolve(slot exportSlot) exportSlot {
	ident := slot.value()
	if ident == nil || ident.Type != jsast.Identifier {
		return slot
	}

	if declarator := exports.mod.topLevelDeclarator(ident.Token); declarator != nil {
		slot.holder = declarator
		slot.index = 1
	}

	return slot
}

// topLevelDeclarator finds `const|let|var name = ...` at the top level,
// exported or not.
func (mod *Module) topLevelDeclarator(name string) *jsast.Node {
	for _, statement := range mod.program.Children {
		decl := statement
		if decl != nil && decl.Type == jsast.ExportNamedDeclaration {
			decl = decl.Child(0)
		}

		if decl == nil || decl.Type != jsast.VariableDeclaration {
			continue
		}

		for _, declarator := range decl.Children {
			if id := declarator.Child(0); id != nil && id.Type == jsast.Identifier && id.Token == name {
				return declarator
			}
		}
	}

	return nil
}

func (exports *ExportsView) slot(name string) (exportSlot, bool) {
	for _, slot := range exports.slots() {
		if slot.name == name {
			return slot, true
		}
	}

	return exportSlot{}, false
}

// Keys lists exported names in source order.
func (exports *ExportsView) Keys() []string {
	slots := exports.slots()
	keys := make([]string, 0, len(slots))

	for _, slot := range slots {
		if !slices.Contains(keys, slot.name) {
			keys = append(keys, slot.name)
		}
	}

	return keys
}

// Has reports whether name is exported.
func (exports *ExportsView) Has(name string) bool {
	_, ok := exports.slot(name)

	return ok
}

// Get returns the decoded value exported as name ("default" for the
// default export), or Undefined.
func (exports *ExportsView) Get(name string) (any, error) {
	slot, ok := exports.slot(name)
	if !ok {
		return Undefined, nil
	}

	return exports.mod.ctx.decode(slot.value())
}

// Object returns the export as an object view.
func (exports *ExportsView) Object(name string) (*ObjectView, error) {
	return typedExport[*ObjectView](exports, name)
}

// Call returns the export as a function call view.
func (exports *ExportsView) Call(name string) (*CallView, error) {
	return typedExport[*CallView](exports, name)
}

func typedExport[T View](exports *ExportsView, name string) (T, error) {
	var zero T

	if !exports.Has(name) {
		return zero, fmt.Errorf("%w: export %q", ErrNotFound, name)
	}

	value, err := exports.Get(name)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: export %q holds %s", ErrKindMismatch, name, describeValue(value))
	}

	return typed, nil
}

// Set replaces an export's value in place, or appends `export default`
// or `export const name = ...` at the end of the module.
func (exports *ExportsView) Set(name string, value any) error {
	program := exports.mod.program

	encoded, err := encodeInto(program, value)
	if err != nil {
		return err
	}

	if slot, ok := exports.slot(name); ok {
		switch {
		case slot.declarator != nil || slot.holder.Type == jsast.VariableDeclarator:
			for len(slot.holder.Children) < 2 {
				slot.holder.AddChild(nil)
			}

			slot.holder.Children[1] = encoded
		case slot.specifier != nil:
			return &StructuralEditError{
				Op: "set export " + name, Reason: "it re-exports a binding that is not a local variable", Node: slot.specifier,
			}
		case slot.statement.Type == jsast.ExportNamedDeclaration:
			slot.statement.Children[0] = constDeclaration(name, encoded)
		default:
			slot.holder.Children[slot.index] = encoded
		}

		return nil
	}

	if name == defaultExport {
		program.AddChild(jsast.New(jsast.ExportDefaultDeclaration, "", encoded))

		return nil
	}

	if !jsast.IsBindingName(name) {
		return fmt.Errorf("%w: export %q", ErrInvalidName, name)
	}

	program.AddChild(jsast.New(jsast.ExportNamedDeclaration, "", constDeclaration(name, encoded)))

	return nil
}

// Delete removes the export named name and reports whether it existed.
// A declarator is split out of a multi-declarator declaration; the last
// specifier of an export list takes the statement with it.
func (exports *ExportsView) Delete(name string) bool {
	slot, ok := exports.slot(name)
	if !ok {
		return false
	}

	program := exports.mod.program

	switch {
	case slot.declarator != nil:
		decl := slot.statement.Child(0)
		if len(decl.Children) > 1 {
			decl.RemoveChild(slot.declarator)

			return true
		}
	case slot.specifier != nil:
		if len(slot.statement.Children) > 2 {
			slot.statement.RemoveChild(slot.specifier)

			return true
		}
	}

	program.RemoveChild(slot.statement)

	return true
}

// Snapshot returns every export as a plain value.
func (exports *ExportsView) Snapshot() (any, error) {
	result := make(map[string]any)

	for _, key := range exports.Keys() {
		value, err := exports.Get(key)
		if err != nil {
			return nil, fmt.Errorf("snapshot export %q: %w", key, err)
		}

		plain, err := Plain(value)
		if err != nil {
			return nil, fmt.Errorf("snapshot export %q: %w", key, err)
		}

		result[key] = plain
	}

	return result, nil
}

// Comments returns the leading comments of the statement exporting name,
// or nil when it is not exported.
func (exports *ExportsView) Comments(name string) *CommentView {
	slot, ok := exports.slot(name)
	if !ok {
		return nil
	}

	return &CommentView{node: slot.statement}
}

func constDeclaration(name string, init *jsast.Node) *jsast.Node {
	return jsast.New(jsast.VariableDeclaration, "const",
		jsast.New(jsast.VariableDeclarator, "", jsast.NewIdentifier(name), init))
}
