package conventions_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
)

// maxInterfaceMethods bounds interface size.
const maxInterfaceMethods = 5

// moduleRoot walks up from the working directory to the directory holding
// go.mod.
func moduleRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("no go.mod above the working directory")
		}

		dir = parent
	}
}

// skipDir excludes directories the go tool ignores as well.
func skipDir(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return true
	}

	return name == "vendor" || name == "testdata" || name == "node_modules"
}

// walkSources calls visit for every non-test Go file of the module.
func walkSources(t *testing.T, root string, visit func(rel string, file *ast.File)) {
	t.Helper()

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path != root && skipDir(entry.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		parsed, parseErr := parser.ParseFile(token.NewFileSet(), path, nil, parser.SkipObjectResolution)
		if parseErr != nil {
			return fmt.Errorf("parse %s: %w", path, parseErr)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relative path of %s: %w", path, relErr)
		}

		visit(rel, parsed)

		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
}

// typeSpecs returns the type declarations of file.
func typeSpecs(file *ast.File) []*ast.TypeSpec {
	var specs []*ast.TypeSpec

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			if typeSpec, isType := spec.(*ast.TypeSpec); isType {
				specs = append(specs, typeSpec)
			}
		}
	}

	return specs
}

// TestNoGrabBagFilenames keeps declarations next to the code that uses
// them instead of in files named after a kind of declaration.
func TestNoGrabBagFilenames(t *testing.T) {
	t.Parallel()

	banned := map[string]string{
		"types.go":     "move each type next to the code that uses it",
		"utils.go":     "move each function into the file that owns its concern",
		"helpers.go":   "move each function into the file that owns its concern",
		"common.go":    "move each symbol into the file that owns its concept",
		"constants.go": "move each constant next to its main user",
		"errors.go":    "declare sentinel errors next to the functions returning them",
	}

	root := moduleRoot(t)

	var violations []string

	walkSources(t, root, func(rel string, _ *ast.File) {
		if fix, ok := banned[filepath.Base(rel)]; ok {
			violations = append(violations, fmt.Sprintf("%s: %s", rel, fix))
		}
	})

	if len(violations) > 0 {
		t.Errorf("grab-bag file names:\n  %s", strings.Join(violations, "\n  "))
	}
}

// TestNoGrabBagPackages rejects package names that say nothing about
// what the package does.
func TestNoGrabBagPackages(t *testing.T) {
	t.Parallel()

	banned := map[string]bool{"util": true, "utils": true, "misc": true, "shared": true, "base": true, "common": true}

	root := moduleRoot(t)
	seen := make(map[string]bool)

	var violations []string

	walkSources(t, root, func(rel string, file *ast.File) {
		dir := filepath.Dir(rel)
		if seen[dir] {
			return
		}

		seen[dir] = true

		if banned[file.Name.Name] {
			violations = append(violations, fmt.Sprintf("%s: package %s", dir, file.Name.Name))
		}
	})

	if len(violations) > 0 {
		t.Errorf("grab-bag packages:\n  %s", strings.Join(violations, "\n  "))
	}
}

// TestSmallInterfaces keeps interfaces narrow enough to fake in tests.
func TestSmallInterfaces(t *testing.T) {
	t.Parallel()

	root := moduleRoot(t)

	var violations []string

	walkSources(t, root, func(rel string, file *ast.File) {
		for _, spec := range typeSpecs(file) {
			iface, ok := spec.Type.(*ast.InterfaceType)
			if !ok {
				continue
			}

			methods := 0

			for _, field := range iface.Methods.List {
				if _, isFunc := field.Type.(*ast.FuncType); isFunc {
					methods++
				}
			}

			if methods > maxInterfaceMethods {
				violations = append(violations,
					fmt.Sprintf("%s: %s has %d methods", rel, spec.Name.Name, methods))
			}
		}
	})

	if len(violations) > 0 {
		t.Errorf("interfaces above %d methods:\n  %s", maxInterfaceMethods, strings.Join(violations, "\n  "))
	}
}

// stutters reports whether name starts with the package name followed by
// a word boundary, as in config.ConfigLoader. An exact match such as
// config.Config does not stutter.
func stutters(pkgName, name string) bool {
	titled := strings.ToUpper(pkgName[:1]) + pkgName[1:]

	rest, ok := strings.CutPrefix(name, titled)
	if !ok || rest == "" {
		return false
	}

	first := rune(rest[0])

	return unicode.IsUpper(first) || unicode.IsDigit(first)
}

func TestStutters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pkg  string
		name string
		want bool
	}{
		{pkg: "config", name: "ConfigLoader", want: true},
		{pkg: "config", name: "Config"},
		{pkg: "view", name: "Views"},
		{pkg: "view", name: "ViewKind", want: true},
		{pkg: "jsast", name: "Node"},
	}

	for _, tt := range tests {
		if got := stutters(tt.pkg, tt.name); got != tt.want {
			t.Errorf("stutters(%q, %q) = %v, want %v", tt.pkg, tt.name, got, tt.want)
		}
	}
}

// TestNoStutteringTypes rejects exported types that repeat their package
// name.
func TestNoStutteringTypes(t *testing.T) {
	t.Parallel()

	root := moduleRoot(t)

	var violations []string

	walkSources(t, root, func(rel string, file *ast.File) {
		pkgName := strings.ToLower(file.Name.Name)
		if pkgName == "main" {
			return
		}

		for _, spec := range typeSpecs(file) {
			if spec.Name.IsExported() && stutters(pkgName, spec.Name.Name) {
				violations = append(violations, fmt.Sprintf("%s: %s.%s", rel, pkgName, spec.Name.Name))
			}
		}
	})

	if len(violations) > 0 {
		t.Errorf("stuttering type names:\n  %s", strings.Join(violations, "\n  "))
	}
}
