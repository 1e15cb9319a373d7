package selector

import "reflect"

// Shallow returns a copy of the top level of slices and maps so the
// combiner cannot mutate the state's backing storage through its
// arguments. Nested values and every other kind are returned unchanged.
func Shallow(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(cp, rv)
		return cp.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		return cp.Interface()
	default:
		return v
	}
}

func freezeAll(freeze func(any) any, args []any) []any {
	for i := range args {
		args[i] = freeze(args[i])
	}
	return args
}
