package view

import (
	"fmt"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// Imported names with special meaning in an ImportSpec.
const (
	ImportDefault   = "default"
	ImportNamespace = "*"
)

// ImportSpec describes an import binding: `import { Imported as Local }
// from "From"`. Imported is ImportDefault or ImportNamespace for the
// other two forms. An empty Local means the same as Imported.
type ImportSpec struct {
	Local    string `json:"local"    yaml:"local"`
	Imported string `json:"imported" yaml:"imported"`
	From     string `json:"from"     yaml:"from"`
}

func (spec ImportSpec) normalized() (ImportSpec, error) {
	if spec.Imported == "" {
		spec.Imported = ImportDefault
	}

	if spec.Local == "" {
		spec.Local = spec.Imported
	}

	if !jsast.IsBindingName(spec.Local) {
		return spec, fmt.Errorf("%w: import local %q", ErrInvalidName, spec.Local)
	}

	if spec.From == "" {
		return spec, fmt.Errorf("%w: import %q has no source", ErrInvalidName, spec.Local)
	}

	return spec, nil
}

// ImportsView is the module's import registry, keyed by local name. Rows
// are recomputed from the Program on every call.
type ImportsView struct {
	mod *Module
}

// Kind returns KindImports.
func (imports *ImportsView) Kind() Kind { return KindImports }

// Node returns the Program node.
func (imports *ImportsView) Node() *jsast.Node { return imports.mod.program }

// Items returns one item per specifier in source order.
func (imports *ImportsView) Items() []*ImportItem {
	var items []*ImportItem

	for _, decl := range imports.declarations() {
		for _, spec := range decl.Children[1:] {
			items = append(items, imports.item(decl, spec))
		}
	}

	return items
}

// Keys returns the local names in source order.
func (imports *ImportsView) Keys() []string {
	items := imports.Items()
	keys := make([]string, 0, len(items))

	for _, item := range items {
		keys = append(keys, item.Local())
	}

	return keys
}

// Len returns the number of imported bindings.
func (imports *ImportsView) Len() int {
	return len(imports.Items())
}

// Get returns the import bound to local.
func (imports *ImportsView) Get(local string) (*ImportItem, bool) {
	for _, item := range imports.Items() {
		if item.Local() == local {
			return item, true
		}
	}

	return nil, false
}

// Has reports whether local is imported.
func (imports *ImportsView) Has(local string) bool {
	_, ok := imports.Get(local)

	return ok
}

// importPlacement says where insert puts a new binding.
type importPlacement int

const (
	// placeJoin joins a declaration from the same source, or starts a new
	// declaration at the top of the module.
	placeJoin importPlacement = iota
	// placeFirst starts a new declaration before all imports.
	placeFirst
	// placeLast starts a new declaration after the last import.
	placeLast
)

// Add imports spec at the top of the module, joining an existing
// declaration from the same source when possible.
func (imports *ImportsView) Add(spec ImportSpec) error {
	return imports.insert(spec, placeJoin)
}

// Prepend imports spec in a new declaration placed before all imports.
func (imports *ImportsView) Prepend(spec ImportSpec) error {
	return imports.insert(spec, placeFirst)
}

// Append imports spec in a new declaration placed after the last import.
func (imports *ImportsView) Append(spec ImportSpec) error {
	return imports.insert(spec, placeLast)
}

// Set binds local to spec. An existing binding is edited in place and
// keeps its position; its source cannot change. A new binding is added
// like Add.
func (imports *ImportsView) Set(local string, spec ImportSpec) error {
	spec.Local = local

	normalized, err := spec.normalized()
	if err != nil {
		return err
	}

	existing, ok := imports.Get(local)
	if !ok {
		return imports.insert(normalized, placeJoin)
	}

	if existing.From() != normalized.From {
		return existing.SetFrom(normalized.From)
	}

	return existing.rebind(normalized)
}

// Delete removes the import of local. A declaration left without
// specifiers is removed too.
func (imports *ImportsView) Delete(local string) bool {
	item, ok := imports.Get(local)
	if !ok {
		return false
	}

	item.decl.RemoveChild(item.spec)

	if len(item.decl.Children) < 2 {
		imports.mod.program.RemoveChild(item.decl)
	}

	delete(imports.mod.ctx.cache, item.spec)

	return true
}

// Snapshot returns the imports keyed by local name.
func (imports *ImportsView) Snapshot() (any, error) {
	result := make(map[string]any)

	for _, item := range imports.Items() {
		snapshot, err := item.Snapshot()
		if err != nil {
			return nil, err
		}

		result[item.Local()] = snapshot
	}

	return result, nil
}

func (imports *ImportsView) insert(spec ImportSpec, placement importPlacement) error {
	normalized, err := spec.normalized()
	if err != nil {
		return err
	}

	if imports.Has(normalized.Local) {
		return fmt.Errorf("%w: %q", ErrImportExists, normalized.Local)
	}

	specifier := newSpecifier(normalized)

	if placement == placeJoin {
		for _, decl := range imports.declarations() {
			if decl.Child(0).Token != normalized.From {
				continue
			}

			if index, ok := joinIndex(decl, specifier.Type); ok {
				decl.InsertChild(index, specifier)

				return nil
			}
		}
	}

	decl := jsast.New(jsast.ImportDeclaration, "", jsast.NewString(normalized.From), specifier)
	program := imports.mod.program

	position := 0
	if placement == placeLast {
		for idx, statement := range program.Children {
			if statement != nil && statement.Type == jsast.ImportDeclaration {
				position = idx + 1
			}
		}
	}

	program.InsertChild(position, decl)

	return nil
}

// joinIndex returns where a specifier of the given type can be added to
// decl, if the combined declaration is valid syntax.
func joinIndex(decl *jsast.Node, specType jsast.Type) (int, bool) {
	var hasDefault, hasNamespace, hasNamed bool

	for _, spec := range decl.Children[1:] {
		switch spec.Type {
		case jsast.ImportDefaultSpecifier:
			hasDefault = true
		case jsast.ImportNamespaceSpecifier:
			hasNamespace = true
		case jsast.ImportSpecifier:
			hasNamed = true
		}
	}

	switch specType {
	case jsast.ImportDefaultSpecifier:
		return 1, !hasDefault
	case jsast.ImportNamespaceSpecifier:
		if hasDefault {
			return 2, !hasNamespace && !hasNamed
		}

		return 1, !hasNamespace && !hasNamed
	default:
		return len(decl.Children), !hasNamespace
	}
}

func newSpecifier(spec ImportSpec) *jsast.Node {
	local := jsast.NewIdentifier(spec.Local)

	switch spec.Imported {
	case ImportDefault:
		return jsast.New(jsast.ImportDefaultSpecifier, "", local)
	case ImportNamespace:
		return jsast.New(jsast.ImportNamespaceSpecifier, "", local)
	default:
		return jsast.New(jsast.ImportSpecifier, "", jsast.NewIdentifier(spec.Imported), local)
	}
}

func (imports *ImportsView) declarations() []*jsast.Node {
	var decls []*jsast.Node

	for _, statement := range imports.mod.program.Children {
		if statement != nil && statement.Type == jsast.ImportDeclaration && statement.Child(0) != nil {
			decls = append(decls, statement)
		}
	}

	return decls
}

// item returns the cached item for a specifier so repeated lookups yield
// the same ImportItem.
func (imports *ImportsView) item(decl, spec *jsast.Node) *ImportItem {
	if cached, ok := imports.mod.ctx.cache[spec].(*ImportItem); ok {
		cached.decl = decl

		return cached
	}

	item := &ImportItem{imports: imports, decl: decl, spec: spec}
	imports.mod.ctx.cache[spec] = item

	return item
}

// ImportItem is one imported binding.
type ImportItem struct {
	imports *ImportsView
	decl    *jsast.Node
	spec    *jsast.Node
}

// Kind returns KindImport.
func (item *ImportItem) Kind() Kind { return KindImport }

// Node returns the specifier node.
func (item *ImportItem) Node() *jsast.Node { return item.spec }

// Declaration returns the ImportDeclaration holding the specifier.
func (item *ImportItem) Declaration() *jsast.Node { return item.decl }

// Local returns the local binding name.
func (item *ImportItem) Local() string {
	if item.spec.Type == jsast.ImportSpecifier {
		return item.spec.Child(1).Token
	}

	return item.spec.Child(0).Token
}

// Imported returns the imported name, ImportDefault or ImportNamespace.
func (item *ImportItem) Imported() string {
	switch item.spec.Type {
	case jsast.ImportDefaultSpecifier:
		return ImportDefault
	case jsast.ImportNamespaceSpecifier:
		return ImportNamespace
	default:
		return item.spec.Child(0).Token
	}
}

// From returns the module specifier.
func (item *ImportItem) From() string {
	return item.decl.Child(0).Token
}

// SetLocal renames the local binding. Uses of the binding elsewhere in
// the module are not renamed.
func (item *ImportItem) SetLocal(name string) error {
	if !jsast.IsBindingName(name) {
		return fmt.Errorf("%w: import local %q", ErrInvalidName, name)
	}

	if name != item.Local() && item.imports.Has(name) {
		return fmt.Errorf("%w: %q", ErrImportExists, name)
	}

	if item.spec.Type == jsast.ImportSpecifier {
		item.spec.Children[1] = jsast.NewIdentifier(name)

		return nil
	}

	item.spec.Children[0] = jsast.NewIdentifier(name)

	return nil
}

// SetImported changes the imported name of a named import.
func (item *ImportItem) SetImported(name string) error {
	if item.spec.Type != jsast.ImportSpecifier {
		if name == item.Imported() {
			return nil
		}

		return &StructuralEditError{
			Op: "change imported name", Reason: "only named imports can be renamed", Node: item.spec,
		}
	}

	if !jsast.IsIdentifierName(name) {
		return fmt.Errorf("%w: imported name %q", ErrInvalidName, name)
	}

	item.spec.Children[0] = jsast.NewIdentifier(name)

	return nil
}

// SetFrom always fails with a StructuralEditError. Delete the import and
// add it again to change its source.
func (item *ImportItem) SetFrom(from string) error {
	return &StructuralEditError{
		Op: fmt.Sprintf("change import source of %q to %q", item.Local(), from), Reason: "import sources are read-only",
		Node: item.decl.Child(0),
	}
}

// rebind points the item at spec, which has the same local name and
// source. A named import is renamed in place. A change of form swaps the
// specifier inside its declaration, or moves it to a new declaration
// right after when the declaration cannot hold both forms.
func (item *ImportItem) rebind(spec ImportSpec) error {
	if spec.Imported == item.Imported() {
		return nil
	}

	named := spec.Imported != ImportDefault && spec.Imported != ImportNamespace
	if named && !jsast.IsIdentifierName(spec.Imported) {
		return fmt.Errorf("%w: imported name %q", ErrInvalidName, spec.Imported)
	}

	if named && item.spec.Type == jsast.ImportSpecifier {
		return item.SetImported(spec.Imported)
	}

	replacement := newSpecifier(spec)
	replacement.Comments = item.spec.Comments
	decl := item.decl
	cache := item.imports.mod.ctx.cache

	delete(cache, item.spec)

	if len(decl.Children) == 2 {
		decl.Children[1] = replacement
		item.spec = replacement
		cache[replacement] = item

		return nil
	}

	decl.RemoveChild(item.spec)
	item.spec = replacement
	cache[replacement] = item

	if index, ok := joinIndex(decl, replacement.Type); ok {
		decl.InsertChild(index, replacement)

		return nil
	}

	standalone := jsast.New(jsast.ImportDeclaration, "", jsast.NewString(spec.From), replacement)
	program := item.imports.mod.program

	program.InsertChild(program.IndexOf(decl)+1, standalone)
	item.decl = standalone

	return nil
}

// Snapshot returns the binding as an ImportSpec-shaped map.
func (item *ImportItem) Snapshot() (any, error) {
	return map[string]any{
		"local":    item.Local(),
		"imported": item.Imported(),
		"from":     item.From(),
	}, nil
}
