package story

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"heroforge/internal/motif"
)

// pathAliases let a path start at a shared field instead of its beat.
var pathAliases = map[string][]string{
	string(RoleHero):          {"0", "hero"},
	string(RoleVillain):       {"0", "villain"},
	string(RoleCompanion):     {"0", "companion"},
	string(RoleOriginalWorld): {"0", "originalWorld"},
	string(RoleOtherWorld):    {"4", "otherWorld"},
	"allies":                  {"5", "allies"},
	"talismans":               {"3", "talismans"},
}

type fieldPath struct {
	kind Kind
	segs []string
}

func parsePath(path string) (fieldPath, error) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	if alias, ok := pathAliases[parts[0]]; ok {
		parts = append(append([]string{}, alias...), parts[1:]...)
	}
	if len(parts) < 2 {
		return fieldPath{}, fmt.Errorf("%w: %q", ErrFieldPath, path)
	}
	k, err := ParseKind(parts[0])
	if err != nil {
		return fieldPath{}, err
	}
	for _, seg := range parts[1:] {
		if seg == "" {
			return fieldPath{}, fmt.Errorf("%w: %q", ErrFieldPath, path)
		}
	}
	return fieldPath{kind: k, segs: parts[1:]}, nil
}

func (fp fieldPath) String() string {
	return strconv.Itoa(int(fp.kind)) + "." + strings.Join(fp.segs, ".")
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// step moves one segment down from v: a JSON field name on structs, an
// index on slices. A nil pointer along the way is not editable.
func step(v reflect.Value, seg string) (reflect.Value, error) {
	v, err := deref(v)
	if err != nil {
		return reflect.Value{}, err
	}
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() && jsonName(f) == seg {
				return v.Field(i), nil
			}
		}
	case reflect.Slice:
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < v.Len() {
			return v.Index(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: no field %q", ErrFieldPath, seg)
}

func locate(root reflect.Value, segs []string) (reflect.Value, error) {
	v := root
	for _, seg := range segs {
		next, err := step(v, seg)
		if err != nil {
			return reflect.Value{}, err
		}
		v = next
	}
	return v, nil
}

func deref(v reflect.Value) (reflect.Value, error) {
	if v.Kind() != reflect.Pointer {
		return v, nil
	}
	if v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: field is empty", ErrNotEditable)
	}
	return v.Elem(), nil
}

// walk visits every reachable value below v with its path.
func walk(v reflect.Value, path string, fn func(path string, v reflect.Value)) {
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	fn(path, v)
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() {
				walk(v.Field(i), path+"."+jsonName(f), fn)
			}
		}
	case reflect.Slice:
		for i := range v.Len() {
			walk(v.Index(i), path+"."+strconv.Itoa(i), fn)
		}
	}
}

func (s *Story) walkBeats(fn func(path string, v reflect.Value)) {
	for i, b := range s.Beats {
		if b != nil {
			walk(reflect.ValueOf(b), strconv.Itoa(i), fn)
		}
	}
}

// MotifField is a motif value found in a beat, addressed by edit path.
type MotifField struct {
	Path  string
	Value motif.Value
}

// ModifierList is a modifier list found in a beat.
type ModifierList struct {
	Path string
	Mods []Modifier
}

// DerivedField is a derived text field found in a beat.
type DerivedField struct {
	Path  string
	Value Derived
}

// MotifFields lists every motif value in beat order.
func (s *Story) MotifFields() []MotifField {
	var out []MotifField
	s.walkBeats(func(path string, v reflect.Value) {
		if m, ok := v.Interface().(motif.Value); ok {
			out = append(out, MotifField{Path: path, Value: m})
		}
	})
	return out
}

// ModifierLists lists every modifier list in beat order.
func (s *Story) ModifierLists() []ModifierList {
	var out []ModifierList
	s.walkBeats(func(path string, v reflect.Value) {
		if mods, ok := v.Interface().([]Modifier); ok {
			out = append(out, ModifierList{Path: path, Mods: mods})
		}
	})
	return out
}

// DerivedFields lists every present derived field in beat order.
func (s *Story) DerivedFields() []DerivedField {
	var out []DerivedField
	s.walkBeats(func(path string, v reflect.Value) {
		if d, ok := v.Interface().(Derived); ok {
			out = append(out, DerivedField{Path: path, Value: d})
		}
	})
	return out
}
