package story

import (
	"encoding/json"

	"heroforge/internal/motif"
)

// Modifier is a labelled fact attached to an entity or place. Labels are
// unique within one modifier list.
type Modifier struct {
	Label string      `json:"label" validate:"required"`
	Value motif.Value `json:"value"`
}

// Entity is a character: a named motif with modifiers.
type Entity struct {
	Name motif.Value `json:"name"`
	Mods []Modifier  `json:"mods" validate:"dive"`
}

// Place is a location with an origin motif and modifiers.
type Place struct {
	Name   motif.Value `json:"name"`
	Origin motif.Value `json:"origin"`
	Mods   []Modifier  `json:"mods" validate:"dive"`
}

// Role names one of the shared story-level entities or places that derived
// fields may reference.
type Role string

const (
	RoleHero          Role = "hero"
	RoleVillain       Role = "villain"
	RoleCompanion     Role = "companion"
	RoleOriginalWorld Role = "originalWorld"
	RoleOtherWorld    Role = "otherWorld"
)

// Roles lists the shared sources in sync order.
var Roles = []Role{RoleHero, RoleVillain, RoleCompanion, RoleOriginalWorld, RoleOtherWorld}

// Ref is the structured provenance of a derived field: which shared source
// and which of its modifier labels the text was rendered from.
type Ref struct {
	Source Role   `json:"source" validate:"oneof=hero villain companion originalWorld otherWorld"`
	Label  string `json:"label" validate:"required"`
}

// Derived is a plain-text field. When it was produced by the cross-reference
// resolver Ref points at its source; hand-written text has no Ref.
type Derived struct {
	Text string `json:"text" validate:"required"`
	Ref  *Ref   `json:"ref,omitempty"`
}

// UnmarshalJSON also accepts a bare string, the format of outlines exported
// before derived fields carried references.
func (d *Derived) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*d = Derived{Text: text}
		return nil
	}
	type plain Derived
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Derived(p)
	return nil
}

func cloneMods(mods []Modifier) []Modifier {
	if mods == nil {
		return nil
	}
	out := make([]Modifier, len(mods))
	copy(out, mods)
	return out
}

func (e Entity) clone() Entity {
	return Entity{Name: e.Name, Mods: cloneMods(e.Mods)}
}

func (p Place) clone() Place {
	return Place{Name: p.Name, Origin: p.Origin, Mods: cloneMods(p.Mods)}
}

func (d Derived) clone() Derived {
	if d.Ref != nil {
		ref := *d.Ref
		d.Ref = &ref
	}
	return d
}

// HasLabel reports whether mods contains label.
func HasLabel(mods []Modifier, label string) bool {
	return indexOfLabel(mods, label) >= 0
}

func indexOfLabel(mods []Modifier, label string) int {
	for i, m := range mods {
		if m.Label == label {
			return i
		}
	}
	return -1
}

func cloneEntities(list []Entity) []Entity {
	if list == nil {
		return nil
	}
	out := make([]Entity, len(list))
	for i, e := range list {
		out[i] = e.clone()
	}
	return out
}

func cloneValues(list []motif.Value) []motif.Value {
	if list == nil {
		return nil
	}
	out := make([]motif.Value, len(list))
	copy(out, list)
	return out
}

func cloneDerivedList(list []Derived) []Derived {
	if list == nil {
		return nil
	}
	out := make([]Derived, len(list))
	for i, d := range list {
		out[i] = d.clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneEntityPtr(e *Entity) *Entity {
	if e == nil {
		return nil
	}
	c := e.clone()
	return &c
}

func cloneDerivedPtr(d *Derived) *Derived {
	if d == nil {
		return nil
	}
	c := d.clone()
	return &c
}
