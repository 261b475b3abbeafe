package story

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"heroforge/internal/motif"
)

// Engine applies user edits to stories. Every method leaves its input
// untouched and returns a new, synchronized story.
type Engine struct {
	picker *motif.Picker
}

func NewEngine(p *motif.Picker) *Engine {
	return &Engine{picker: p}
}

func (e *Engine) Picker() *motif.Picker {
	return e.picker
}

func (e *Engine) Generate() *Story {
	return Generate(e.picker)
}

// Regenerate rerolls a beat and its dependents and reports which beats
// were replaced.
func (e *Engine) Regenerate(s *Story, index int) (*Story, []int, error) {
	return RegenerateBeatReport(e.picker, s, index)
}

// Reroll redraws a motif from its provenance. Entity and place paths reroll
// the name; modifier paths reroll the value.
func (e *Engine) Reroll(s *Story, path string) (*Story, error) {
	return e.apply(s, path, func(root reflect.Value, segs []string) error {
		target, err := locateValue(root, segs)
		if err != nil {
			return err
		}
		switch x := target.Interface().(type) {
		case motif.Value:
			target.Set(reflect.ValueOf(e.picker.Reroll(x)))
		case Modifier:
			x.Value = e.picker.Reroll(x.Value)
			target.Set(reflect.ValueOf(x))
		case Entity:
			x.Name = e.picker.Reroll(x.Name)
			target.Set(reflect.ValueOf(x))
		case Place:
			x.Name = e.picker.Reroll(x.Name)
			target.Set(reflect.ValueOf(x))
		default:
			return fmt.Errorf("%w: cannot reroll %s", ErrNotEditable, target.Type())
		}
		return nil
	})
}

// SetText replaces the text of a motif, modifier value, name or derived
// field. Motifs keep their pool; derived fields become free-form.
func (e *Engine) SetText(s *Story, path, text string) (*Story, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrNotEditable)
	}
	return e.apply(s, path, func(root reflect.Value, segs []string) error {
		target, err := locate(root, segs)
		if err != nil {
			return err
		}
		if target.Kind() == reflect.Pointer && target.IsNil() {
			if target.Type().Elem() != reflect.TypeOf(Derived{}) {
				return fmt.Errorf("%w: field is empty", ErrNotEditable)
			}
			target.Set(reflect.ValueOf(&Derived{Text: text}))
			return nil
		}
		target, _ = deref(target)
		switch x := target.Interface().(type) {
		case motif.Value:
			x.Text = text
			target.Set(reflect.ValueOf(x))
		case Modifier:
			x.Value.Text = text
			target.Set(reflect.ValueOf(x))
		case Entity:
			x.Name.Text = text
			target.Set(reflect.ValueOf(x))
		case Place:
			x.Name.Text = text
			target.Set(reflect.ValueOf(x))
		case Derived:
			target.Set(reflect.ValueOf(Derived{Text: text}))
		default:
			return fmt.Errorf("%w: cannot set text on %s", ErrNotEditable, target.Type())
		}
		return nil
	})
}

// Clear empties an optional field, empties a list, or removes one list
// entry.
func (e *Engine) Clear(s *Story, path string) (*Story, error) {
	return e.apply(s, path, func(root reflect.Value, segs []string) error {
		parent, err := locate(root, segs[:len(segs)-1])
		if err != nil {
			return err
		}
		parent, err = deref(parent)
		if err != nil {
			return err
		}
		last := segs[len(segs)-1]
		if parent.Kind() == reflect.Slice {
			i, err := strconv.Atoi(last)
			if err != nil || i < 0 || i >= parent.Len() {
				return fmt.Errorf("%w: no entry %q", ErrFieldPath, last)
			}
			out := reflect.MakeSlice(parent.Type(), 0, parent.Len()-1)
			out = reflect.AppendSlice(out, parent.Slice(0, i))
			out = reflect.AppendSlice(out, parent.Slice(i+1, parent.Len()))
			parent.Set(out)
			return nil
		}
		field, err := step(parent, last)
		if err != nil {
			return err
		}
		switch field.Kind() {
		case reflect.Pointer:
			field.Set(reflect.Zero(field.Type()))
		case reflect.Slice:
			field.Set(reflect.MakeSlice(field.Type(), 0, 0))
		default:
			return fmt.Errorf("%w: %s is required", ErrNotEditable, last)
		}
		return nil
	})
}

// AddModifier attaches a random catalog modifier the target does not have
// yet. Entities use CharacterModifiers; places and place modifier lists use
// PlaceModifiers.
func (e *Engine) AddModifier(s *Story, path string) (*Story, error) {
	return e.editMods(s, path, func(mods []Modifier, catalog Catalog) ([]Modifier, error) {
		m, ok := UnusedModifier(e.picker, catalog, mods)
		if !ok {
			return nil, ErrCatalogExhausted
		}
		return append(mods, m), nil
	})
}

func (e *Engine) RemoveModifier(s *Story, path, label string) (*Story, error) {
	return e.editMods(s, path, func(mods []Modifier, _ Catalog) ([]Modifier, error) {
		i := indexOfLabel(mods, label)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrModifierNotFound, label)
		}
		out := make([]Modifier, 0, len(mods)-1)
		out = append(out, mods[:i]...)
		return append(out, mods[i+1:]...), nil
	})
}

// RenameModifier changes a label in place. Derived fields that referenced
// the old label are cleared by the following sync.
func (e *Engine) RenameModifier(s *Story, path, from, to string) (*Story, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("%w: empty label", ErrNotEditable)
	}
	return e.editMods(s, path, func(mods []Modifier, _ Catalog) ([]Modifier, error) {
		i := indexOfLabel(mods, from)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrModifierNotFound, from)
		}
		if from != to && HasLabel(mods, to) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, to)
		}
		mods[i].Label = to
		return mods, nil
	})
}

func (e *Engine) editMods(s *Story, path string, fn func([]Modifier, Catalog) ([]Modifier, error)) (*Story, error) {
	return e.apply(s, path, func(root reflect.Value, segs []string) error {
		target, err := locateValue(root, segs)
		if err != nil {
			return err
		}
		var (
			list    reflect.Value
			catalog Catalog
		)
		switch target.Interface().(type) {
		case Entity:
			list, catalog = target.FieldByName("Mods"), CharacterModifiers
		case Place:
			list, catalog = target.FieldByName("Mods"), PlaceModifiers
		case []Modifier:
			list, catalog = target, PlaceModifiers
		default:
			return fmt.Errorf("%w: %s has no modifiers", ErrNotEditable, target.Type())
		}
		mods, err := fn(list.Interface().([]Modifier), catalog)
		if err != nil {
			return err
		}
		list.Set(reflect.ValueOf(mods))
		return nil
	})
}

func locateValue(root reflect.Value, segs []string) (reflect.Value, error) {
	v, err := locate(root, segs)
	if err != nil {
		return reflect.Value{}, err
	}
	return deref(v)
}

// apply runs fn against an addressable copy of the beat named by path and
// returns the synced result.
func (e *Engine) apply(s *Story, path string, fn func(root reflect.Value, segs []string) error) (*Story, error) {
	fp, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	beat := s.Beats[fp.kind].clone()
	root := reflect.New(reflect.TypeOf(beat)).Elem()
	root.Set(reflect.ValueOf(beat))
	if err := fn(root, fp.segs); err != nil {
		return nil, fmt.Errorf("editing %s: %w", fp, err)
	}
	out := s.Clone()
	out.Beats[fp.kind] = root.Interface().(Beat)
	return Sync(s, out), nil
}
