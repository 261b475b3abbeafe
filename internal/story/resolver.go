package story

import (
	"fmt"
	"regexp"

	"heroforge/internal/motif"
)

var referencePattern = regexp.MustCompile(`^(.+)'s "(.+): (.+)"$`)

// Source is a shared entity or place a derived field can point at.
type Source struct {
	Role Role
	Name motif.Value
	Mods []Modifier
}

func entitySource(r Role, e Entity) Source {
	return Source{Role: r, Name: e.Name, Mods: e.Mods}
}

func placeSource(r Role, pl Place) Source {
	return Source{Role: r, Name: pl.Name, Mods: pl.Mods}
}

// FormatReference renders name's "label: value".
func FormatReference(name, label, value string) string {
	return fmt.Sprintf("%s's \"%s: %s\"", name, label, value)
}

// ParseReference splits text produced by FormatReference. Greedy matching
// means a name containing "'s \"" parses the way it always has.
func ParseReference(text string) (name, label, value string, ok bool) {
	m := referencePattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", false
	}
	return m[1], m[2], m[3], true
}

func deriveFrom(src Source, m Modifier) Derived {
	return Derived{
		Text: FormatReference(src.Name.Text, m.Label, m.Value.Text),
		Ref:  &Ref{Source: src.Role, Label: m.Label},
	}
}

// PickModifierOf picks a source that has modifiers, then one of its
// modifiers, and renders a reference to it. It returns nil when no source
// has any modifiers.
func PickModifierOf(p *motif.Picker, sources ...Source) *Derived {
	var withMods []Source
	for _, s := range sources {
		if len(s.Mods) > 0 {
			withMods = append(withMods, s)
		}
	}
	if len(withMods) == 0 {
		return nil
	}
	src := withMods[p.Intn(len(withMods))]
	d := deriveFrom(src, src.Mods[p.Intn(len(src.Mods))])
	return &d
}
