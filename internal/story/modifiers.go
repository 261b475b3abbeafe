package story

import "heroforge/internal/motif"

// SharedTraitLabel marks the Condition hero and villain sometimes share.
const SharedTraitLabel = "hero and villain share the trait"

// ModifierDef pairs a label with the draw that values it.
type ModifierDef struct {
	Label string
	Pick  func(p *motif.Picker) motif.Value
}

// Catalog is an ordered list of modifier definitions.
type Catalog []ModifierDef

func pickFrom(keys ...motif.Key) func(*motif.Picker) motif.Value {
	return func(p *motif.Picker) motif.Value { return p.PickAny(keys...) }
}

// CharacterModifiers values entity modifiers.
var CharacterModifiers = Catalog{
	{Label: "wants", Pick: (*motif.Picker).PickAnyMotif},
	{Label: "fears", Pick: pickFrom(motif.Event, motif.Condition, motif.Outcome)},
	{Label: "carries", Pick: pickFrom(motif.Object)},
	{Label: "is known for", Pick: pickFrom(motif.Attribute)},
	{Label: "is bound by", Pick: pickFrom(motif.Condition)},
	{Label: "hails from", Pick: pickFrom(motif.Place)},
	{Label: "owes a debt to", Pick: func(p *motif.Picker) motif.Value { return p.PickBeing("") }},
	{Label: "was born of", Pick: pickFrom(motif.Origin)},
	{Label: "once suffered", Pick: pickFrom(motif.Outcome)},
	{Label: "secretly seeks", Pick: pickFrom(motif.Action)},
}

// PlaceModifiers values place modifiers.
var PlaceModifiers = Catalog{
	{Label: "is ruled by", Pick: func(p *motif.Picker) motif.Value { return p.PickBeing("") }},
	{Label: "is haunted by", Pick: (*motif.Picker).PickSupernatural},
	{Label: "is known for", Pick: pickFrom(motif.Attribute)},
	{Label: "suffers from", Pick: pickFrom(motif.Condition)},
	{Label: "hides", Pick: pickFrom(motif.Object)},
	{Label: "was shaped by", Pick: pickFrom(motif.Event)},
	{Label: "came to be through", Pick: pickFrom(motif.Origin)},
}

// Lookup returns the definition with label.
func (c Catalog) Lookup(label string) (ModifierDef, bool) {
	for _, d := range c {
		if d.Label == label {
			return d, true
		}
	}
	return ModifierDef{}, false
}

func (d ModifierDef) build(p *motif.Picker) Modifier {
	return Modifier{Label: d.Label, Value: d.Pick(p)}
}

// RandomModifier builds one modifier from a random catalog entry.
func RandomModifier(p *motif.Picker, catalog Catalog) Modifier {
	return catalog[p.Intn(len(catalog))].build(p)
}

// UnusedModifier builds a modifier from a random entry whose label is not in
// mods. It reports false when every catalog label is taken.
func UnusedModifier(p *motif.Picker, catalog Catalog, mods []Modifier) (Modifier, bool) {
	var free []ModifierDef
	for _, d := range catalog {
		if !HasLabel(mods, d.Label) {
			free = append(free, d)
		}
	}
	if len(free) == 0 {
		return Modifier{}, false
	}
	return free[p.Intn(len(free))].build(p), true
}

func optionalModifier(p *motif.Picker, catalog Catalog) *Modifier {
	if !p.Coin() {
		return nil
	}
	m := RandomModifier(p, catalog)
	return &m
}
