package selector

import (
	"encoding"
	"reflect"
)

var (
	jsonMarshalerType = reflect.TypeFor[interface{ MarshalJSON() ([]byte, error) }]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// droppedField reports the first field of t that the JSON encoding would
// silently leave out of a cache key: an unexported field or one tagged
// `json:"-"`. Two states differing only in such a field would share a key.
//
// Types with their own MarshalJSON or MarshalText are trusted, and interface
// values are only known at encode time, so both are skipped.
func droppedField(t reflect.Type) (string, bool) {
	return walkDropped(t, t.String(), make(map[reflect.Type]bool))
}

func walkDropped(t reflect.Type, path string, seen map[reflect.Type]bool) (string, bool) {
	if seen[t] {
		return "", false
	}
	seen[t] = true

	if customEncoding(t) {
		return "", false
	}
	switch t.Kind() {
	case reflect.Pointer:
		return walkDropped(t.Elem(), path, seen)
	case reflect.Slice, reflect.Array, reflect.Map:
		return walkDropped(t.Elem(), path+"[]", seen)
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			name := path + "." + f.Name
			if tagOmits(f.Tag) {
				return name, true
			}
			if f.Anonymous {
				et := f.Type
				if et.Kind() == reflect.Pointer {
					et = et.Elem()
				}
				// exported fields of embedded structs are promoted
				if et.Kind() == reflect.Struct {
					if p, ok := walkDropped(f.Type, name, seen); ok {
						return p, true
					}
					continue
				}
			}
			if !f.IsExported() {
				return name, true
			}
			if p, ok := walkDropped(f.Type, name, seen); ok {
				return p, true
			}
		}
	}
	return "", false
}

func customEncoding(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(jsonMarshalerType) || pt.Implements(jsonMarshalerType) ||
		t.Implements(textMarshalerType) || pt.Implements(textMarshalerType)
}

// tagOmits matches `json:"-"` exactly; `json:"-,"` names a field "-".
func tagOmits(tag reflect.StructTag) bool { return tag.Get("json") == "-" }
