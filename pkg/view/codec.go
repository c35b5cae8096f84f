package view

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsast"
)

// Encode converts a Go value into a new expression node.
//
// Views and *jsast.Node values are not copied: the returned node is the
// same node, so the tree ends up sharing it. Use Copy for an independent
// duplicate. Maps are written with sorted keys, structs follow their json
// tags, Object keeps its order. Set, Map and time.Time become `new Set`,
// `new Map` and `new Date` expressions.
func Encode(value any) (*jsast.Node, error) {
	enc := &encoder{path: []string{"$"}, seen: make(map[visitKey]bool)}

	return enc.encode(value)
}

// Copy is like Encode but never shares nodes: views and nodes are deep
// copied, keeping their original text.
func Copy(value any) (*jsast.Node, error) {
	switch typed := value.(type) {
	case View:
		return typed.Node().Clone(), nil
	case *jsast.Node:
		return typed.Clone(), nil
	}

	encoded, err := Encode(value)
	if err != nil {
		return nil, err
	}

	return encoded.Clone(), nil
}

type visitKey struct {
	typ  reflect.Type
	ptr  uintptr
	size int
}

type encoder struct {
	seen map[visitKey]bool
	path []string
}

//nolint:cyclop,gocyclo // flat dispatch over Go kinds.
func (enc *encoder) encode(value any) (*jsast.Node, error) {
	switch typed := value.(type) {
	case nil:
		return jsast.New(jsast.NullLiteral, "null"), nil
	case UndefinedValue:
		return jsast.NewIdentifier("undefined"), nil
	case *jsast.Node:
		if typed == nil {
			return jsast.New(jsast.NullLiteral, "null"), nil
		}

		return typed, nil
	case View:
		return typed.Node(), nil
	case Object:
		return enc.visit(reflect.ValueOf(typed), func() (*jsast.Node, error) {
			return enc.object(typed)
		})
	case Set:
		return enc.visit(reflect.ValueOf(typed), func() (*jsast.Node, error) {
			elements, err := enc.elements([]any(typed))
			if err != nil {
				return nil, err
			}

			return construct("Set", jsast.New(jsast.ArrayExpression, "", elements...)), nil
		})
	case Map:
		return enc.visit(reflect.ValueOf(typed), func() (*jsast.Node, error) {
			return enc.mapValue(typed)
		})
	case time.Time:
		return construct("Date", jsast.NewString(typed.UTC().Format("2006-01-02T15:04:05.000Z07:00"))), nil
	case string:
		return jsast.NewString(typed), nil
	case bool:
		return jsast.New(jsast.BooleanLiteral, strconv.FormatBool(typed)), nil
	}

	return enc.reflectValue(reflect.ValueOf(value))
}

//nolint:cyclop,exhaustive // remaining kinds are unsupported.
func (enc *encoder) reflectValue(value reflect.Value) (*jsast.Node, error) {
	switch value.Kind() {
	case reflect.Bool:
		return jsast.New(jsast.BooleanLiteral, strconv.FormatBool(value.Bool())), nil
	case reflect.String:
		return jsast.NewString(value.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number(float64(value.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number(float64(value.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return number(value.Float()), nil
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return jsast.New(jsast.NullLiteral, "null"), nil
		}

		return enc.visit(value, func() (*jsast.Node, error) {
			return enc.encode(value.Elem().Interface())
		})
	case reflect.Slice:
		return enc.visit(value, func() (*jsast.Node, error) {
			return enc.slice(value)
		})
	case reflect.Array:
		return enc.slice(value)
	case reflect.Map:
		return enc.visit(value, func() (*jsast.Node, error) {
			return enc.mapping(value)
		})
	case reflect.Struct:
		return enc.structure(value)
	default:
		return nil, fmt.Errorf("%w: %s at %s", ErrUnsupportedValue, value.Type(), enc.where())
	}
}

// visit guards against reference cycles along the current encoding path.
func (enc *encoder) visit(value reflect.Value, encode func() (*jsast.Node, error)) (*jsast.Node, error) {
	if value.Kind() == reflect.Interface || value.IsNil() {
		return encode()
	}

	key := visitKey{typ: value.Type(), ptr: value.Pointer()}
	if value.Kind() == reflect.Slice {
		key.size = value.Len()
	}

	if enc.seen[key] {
		return nil, &CircularReferenceError{Path: enc.where()}
	}

	enc.seen[key] = true
	defer delete(enc.seen, key)

	return encode()
}

func (enc *encoder) where() string {
	return strings.Join(enc.path, "")
}

func (enc *encoder) at(segment string, encode func() (*jsast.Node, error)) (*jsast.Node, error) {
	enc.path = append(enc.path, segment)
	defer func() { enc.path = enc.path[:len(enc.path)-1] }()

	return encode()
}

func (enc *encoder) elements(values []any) ([]*jsast.Node, error) {
	result := make([]*jsast.Node, 0, len(values))

	for idx, item := range values {
		encoded, err := enc.at("["+strconv.Itoa(idx)+"]", func() (*jsast.Node, error) {
			return enc.encode(item)
		})
		if err != nil {
			return nil, err
		}

		result = append(result, encoded)
	}

	return result, nil
}

func (enc *encoder) slice(value reflect.Value) (*jsast.Node, error) {
	values := make([]any, value.Len())
	for idx := range values {
		values[idx] = value.Index(idx).Interface()
	}

	elements, err := enc.elements(values)
	if err != nil {
		return nil, err
	}

	return jsast.New(jsast.ArrayExpression, "", elements...), nil
}

func (enc *encoder) object(entries Object) (*jsast.Node, error) {
	obj := jsast.New(jsast.ObjectExpression, "")

	for _, entry := range entries {
		encoded, err := enc.at(pathSegment(entry.Key), func() (*jsast.Node, error) {
			return enc.encode(entry.Value)
		})
		if err != nil {
			return nil, err
		}

		obj.AddChild(newProperty(entry.Key, encoded))
	}

	return obj, nil
}

func (enc *encoder) mapping(value reflect.Value) (*jsast.Node, error) {
	keys := make([]string, 0, value.Len())
	byKey := make(map[string]reflect.Value, value.Len())

	iter := value.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("%w at %s", err, enc.where())
		}

		keys = append(keys, key)
		byKey[key] = iter.Value()
	}

	slices.Sort(keys)

	entries := make(Object, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, Entry{Key: key, Value: byKey[key].Interface()})
	}

	return enc.object(entries)
}

func (enc *encoder) mapValue(entries Map) (*jsast.Node, error) {
	pairs := make([]*jsast.Node, 0, len(entries))

	for idx, entry := range entries {
		pair, err := enc.at("["+strconv.Itoa(idx)+"]", func() (*jsast.Node, error) {
			elements, err := enc.elements([]any{entry.Key, entry.Value})
			if err != nil {
				return nil, err
			}

			return jsast.New(jsast.ArrayExpression, "", elements...), nil
		})
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, pair)
	}

	return construct("Map", jsast.New(jsast.ArrayExpression, "", pairs...)), nil
}

func (enc *encoder) structure(value reflect.Value) (*jsast.Node, error) {
	entries := structEntries(value)

	return enc.object(entries)
}

// structEntries lists the exported fields of a struct the way encoding/json
// names them. Embedded structs without a tag are flattened.
func structEntries(value reflect.Value) Object {
	var entries Object

	structType := value.Type()

	for idx := range structType.NumField() {
		field := structType.Field(idx)
		if !field.IsExported() {
			continue
		}

		name, options, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" && options == "" {
			continue
		}

		fieldValue := value.Field(idx)

		if field.Anonymous && name == "" && fieldValue.Kind() == reflect.Struct {
			entries = append(entries, structEntries(fieldValue)...)

			continue
		}

		if strings.Contains(options, "omitempty") && fieldValue.IsZero() {
			continue
		}

		if name == "" {
			name = field.Name
		}

		entries = append(entries, Entry{Key: name, Value: fieldValue.Interface()})
	}

	return entries
}

//nolint:exhaustive // only string and integer keys are supported.
func mapKey(key reflect.Value) (string, error) {
	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(key.Uint(), 10), nil
	default:
		return "", fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, key.Type())
	}
}

func pathSegment(key string) string {
	if jsast.IsIdentifierName(key) {
		return "." + key
	}

	return "[" + strconv.Quote(key) + "]"
}

// number encodes a float64 the way JavaScript prints numbers.
func number(value float64) *jsast.Node {
	switch {
	case math.IsNaN(value):
		return jsast.NewIdentifier("NaN")
	case math.IsInf(value, 1):
		return jsast.NewIdentifier("Infinity")
	case math.IsInf(value, -1):
		return jsast.New(jsast.UnaryExpression, "-", jsast.NewIdentifier("Infinity"))
	case value < 0 || (value == 0 && math.Signbit(value)):
		return jsast.New(jsast.UnaryExpression, "-", number(-value))
	}

	return jsast.New(jsast.NumericLiteral, formatNumber(value))
}

func formatNumber(value float64) string {
	const (
		exponentAbove = 1e21
		exponentBelow = 1e-6
	)

	if value != 0 && (value >= exponentAbove || value < exponentBelow) {
		return strings.Replace(strconv.FormatFloat(value, 'g', -1, 64), "e-0", "e-", 1)
	}

	return strconv.FormatFloat(value, 'f', -1, 64)
}

// construct builds `new <name>(args...)`.
func construct(name string, args ...*jsast.Node) *jsast.Node {
	return jsast.New(jsast.NewExpression, "",
		jsast.NewIdentifier(name),
		jsast.New(jsast.Arguments, "", args...),
	)
}

// newProperty builds `key: value`, quoting keys that are not identifiers.
func newProperty(key string, value *jsast.Node) *jsast.Node {
	keyNode := jsast.NewString(key)
	if jsast.IsIdentifierName(key) {
		keyNode = jsast.NewIdentifier(key)
	}

	return jsast.New(jsast.Property, "", keyNode, value)
}

// decode returns the Go value of a literal node, or the view of any other
// node. Holes and `undefined` decode to Undefined.
func (viewCtx *Context) decode(targetNode *jsast.Node) (any, error) {
	targetNode = unwrap(targetNode)
	if targetNode == nil {
		return Undefined, nil
	}

	switch targetNode.Type {
	case jsast.StringLiteral, jsast.TemplateLiteral:
		return targetNode.Token, nil
	case jsast.NumericLiteral:
		return parseNumber(targetNode)
	case jsast.BooleanLiteral:
		return targetNode.Token == "true", nil
	case jsast.NullLiteral:
		return nil, nil
	case jsast.Identifier:
		switch targetNode.Token {
		case "undefined":
			return Undefined, nil
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		}
	case jsast.UnaryExpression:
		if signed, ok := viewCtx.signedNumber(targetNode); ok {
			return signed, nil
		}
	}

	return viewCtx.ViewOf(targetNode)
}

func (viewCtx *Context) signedNumber(targetNode *jsast.Node) (float64, bool) {
	if targetNode.Token != "-" && targetNode.Token != "+" {
		return 0, false
	}

	value, err := viewCtx.decode(targetNode.Child(0))
	if err != nil {
		return 0, false
	}

	magnitude, ok := value.(float64)
	if !ok {
		return 0, false
	}

	if targetNode.Token == "-" {
		return -magnitude, true
	}

	return magnitude, true
}

// parseNumber handles decimal, hex, octal, binary, legacy octal, numeric
// separators and BigInt suffixes.
func parseNumber(targetNode *jsast.Node) (float64, error) {
	text := strings.ReplaceAll(strings.TrimSuffix(targetNode.Token, "n"), "_", "")
	lower := strings.ToLower(text)

	switch {
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		parsed, err := strconv.ParseUint(lower, 0, 64)
		if err != nil {
			return 0, &UnsupportedNodeError{Node: targetNode}
		}

		return float64(parsed), nil
	case len(text) > 1 && text[0] == '0' && strings.Trim(text, "01234567") == "":
		parsed, err := strconv.ParseUint(text[1:], 8, 64)
		if err != nil {
			return 0, &UnsupportedNodeError{Node: targetNode}
		}

		return float64(parsed), nil
	}

	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &UnsupportedNodeError{Node: targetNode}
	}

	return parsed, nil
}

// encodeInto encodes value for insertion under container and rejects
// values whose node already contains the container.
func encodeInto(container *jsast.Node, value any) (*jsast.Node, error) {
	encoded, err := Encode(value)
	if err != nil {
		return nil, err
	}

	if encoded == container || encoded.Contains(container) {
		return nil, &CircularReferenceError{Node: container}
	}

	return encoded, nil
}
