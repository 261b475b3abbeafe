package story

import (
	"reflect"

	"heroforge/internal/logger"
)

// Sync reprojects the shared fields of edited from their source beats and
// rewrites derived fields that point at a source whose name or modifiers
// changed. Neither input is modified.
//
// A derived field with a Ref is resolved by role: if the label is gone the
// field is cleared, otherwise it is re-rendered from the current source.
// Fields without a Ref are parsed back out of their text; text that does
// not parse, or whose source cannot be found, is left alone. LearnsAbout is
// mandatory, so where another field would be cleared it keeps its text and
// loses its Ref.
func Sync(old, edited *Story) *Story {
	out := edited.Clone()
	out.project()

	before, after := old.Sources(), out.Sources()
	if sourcesEqual(before, after) {
		return out
	}

	rewritten := 0
	if b, ok := out.Beats[KindCallToAdventure].(CallToAdventure); ok && b.BecauseOf != nil {
		d := resolveOptional(*b.BecauseOf, before, after)
		if !reflect.DeepEqual(d, b.BecauseOf) {
			rewritten++
		}
		b.BecauseOf = d
		out.Beats[KindCallToAdventure] = b
	}
	if b, ok := out.Beats[KindRefusal].(Refusal); ok && b.BecauseOf != nil {
		d := resolveOptional(*b.BecauseOf, before, after)
		if !reflect.DeepEqual(d, b.BecauseOf) {
			rewritten++
		}
		b.BecauseOf = d
		out.Beats[KindRefusal] = b
	}
	if b, ok := out.Beats[KindMentor].(Mentor); ok {
		prev := b.LearnsAbout
		if d, keep := resolveDerived(b.LearnsAbout, before, after); keep {
			b.LearnsAbout = d
		} else {
			b.LearnsAbout.Ref = nil
		}
		if !reflect.DeepEqual(prev, b.LearnsAbout) {
			rewritten++
		}
		out.Beats[KindMentor] = b
	}
	if b, ok := out.Beats[KindOrdeal].(Ordeal); ok {
		hinges := make([]Derived, 0, len(b.HingesOn))
		for _, prev := range b.HingesOn {
			d, keep := resolveDerived(prev, before, after)
			if keep {
				hinges = append(hinges, d)
			}
			if !keep || !reflect.DeepEqual(prev, d) {
				rewritten++
			}
		}
		b.HingesOn = hinges
		out.Beats[KindOrdeal] = b
	}
	logger.Debug("story synced", "rewritten", rewritten)
	return out
}

func sourcesEqual(a, b []Source) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name.Text != b[i].Name.Text || len(a[i].Mods) != len(b[i].Mods) {
			return false
		}
		for j, m := range a[i].Mods {
			if !reflect.DeepEqual(m, b[i].Mods[j]) {
				return false
			}
		}
	}
	return true
}

func resolveOptional(d Derived, before, after []Source) *Derived {
	d, keep := resolveDerived(d, before, after)
	if !keep {
		return nil
	}
	return &d
}

// resolveDerived returns the rewritten field and false when the modifier it
// referenced no longer exists.
func resolveDerived(d Derived, before, after []Source) (Derived, bool) {
	if d.Ref != nil {
		for _, src := range after {
			if src.Role != d.Ref.Source {
				continue
			}
			i := indexOfLabel(src.Mods, d.Ref.Label)
			if i < 0 {
				return Derived{}, false
			}
			return deriveFrom(src, src.Mods[i]), true
		}
		return d, true
	}

	name, label, value, ok := ParseReference(d.Text)
	if !ok {
		return d, true
	}
	for i, src := range before {
		if src.Name.Text == name && HasLabel(src.Mods, label) {
			return rewrite(after[i], label)
		}
	}
	for i, src := range before {
		if src.Name.Text == after[i].Name.Text {
			continue
		}
		j := indexOfLabel(src.Mods, label)
		if j >= 0 && src.Mods[j].Value.Text == value {
			return rewrite(after[i], label)
		}
	}
	return d, true
}

func rewrite(src Source, label string) (Derived, bool) {
	i := indexOfLabel(src.Mods, label)
	if i < 0 {
		return Derived{}, false
	}
	return deriveFrom(src, src.Mods[i]), true
}
