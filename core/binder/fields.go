package binder

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// sources are the tags a field may use to pick where it is bound from.
var sources = []string{"path", "query", "form", "file", "json"}

type field struct {
	index int
	name  string
	typ   reflect.Type
}

type planKey struct {
	typ    reflect.Type
	source string
}

var plans sync.Map // planKey -> []field

// plan lists the fields of t bound from source. A field tagged for source
// uses the tag name; "-" skips it. A field without any source tag is bound
// from every source under its lowercased name.
func plan(t reflect.Type, source string) []field {
	key := planKey{t, source}
	if p, ok := plans.Load(key); ok {
		return p.([]field)
	}

	var out []field
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, ok := fieldName(sf, source)
		if !ok {
			continue
		}
		out = append(out, field{index: i, name: name, typ: sf.Type})
	}
	p, _ := plans.LoadOrStore(key, out)
	return p.([]field)
}

func fieldName(sf reflect.StructField, source string) (string, bool) {
	if tag, ok := sf.Tag.Lookup(source); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", false
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		return name, true
	}
	for _, other := range sources {
		if _, ok := sf.Tag.Lookup(other); ok {
			return "", false
		}
	}
	return strings.ToLower(sf.Name), true
}

// target returns the struct behind v.
func target(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv.Elem(), nil
}

// bindValues sets every field of v named in lookup's results.
func bindValues(v any, source string, lookup func(name string) []string, bindErr error) error {
	rv, err := target(v)
	if err != nil {
		return fmt.Errorf("%w: %w", bindErr, err)
	}
	for _, f := range plan(rv.Type(), source) {
		values := lookup(f.name)
		if len(values) == 0 {
			continue
		}
		if err := setValue(rv.Field(f.index), values); err != nil {
			return fmt.Errorf("%w: %s: %w", bindErr, f.name, err)
		}
	}
	return nil
}

var textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()

func setValue(fv reflect.Value, values []string) error {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return setValue(fv.Elem(), values)
	}

	if reflect.PointerTo(fv.Type()).Implements(textUnmarshaler) {
		return fv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(values[0]))
	}

	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() != reflect.Uint8 {
		var parts []string
		for _, v := range values {
			for p := range strings.SplitSeq(v, ",") {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		slice := reflect.MakeSlice(fv.Type(), len(parts), len(parts))
		for i, p := range parts {
			if err := setValue(slice.Index(i), []string{p}); err != nil {
				return err
			}
		}
		fv.Set(slice)
		return nil
	}

	return setScalar(fv, values[0])
}

func setScalar(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		fv.SetFloat(n)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", fv.Type())
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "on", "yes":
		return true, nil
	case "0", "f", "false", "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
