package story

import "heroforge/internal/motif"

// attachModifiers picks count distinct catalog entries. count is clamped to
// the catalog size so labels stay unique.
func attachModifiers(p *motif.Picker, catalog Catalog, count int) []Modifier {
	mods := make([]Modifier, 0, max(count, 0))
	for _, i := range p.Sample(len(catalog), count) {
		mods = append(mods, catalog[i].build(p))
	}
	return mods
}

// MakeEntity builds an entity named by name with count modifiers.
func MakeEntity(p *motif.Picker, name motif.Value, catalog Catalog, count int) Entity {
	return Entity{Name: name, Mods: attachModifiers(p, catalog, count)}
}

// MakePlace builds a place drawn from the Place and Origin pools.
func MakePlace(p *motif.Picker, catalog Catalog, count int) Place {
	name := p.Pick(motif.Place)
	origin := p.Pick(motif.Origin)
	return Place{Name: name, Origin: origin, Mods: attachModifiers(p, catalog, count)}
}

func makeCharacter(p *motif.Picker, preferred motif.Key, min, max int) Entity {
	return MakeEntity(p, p.PickBeing(preferred), CharacterModifiers, p.Between(min, max))
}

func makeCharacters(p *motif.Picker, min, max int) []Entity {
	n := p.Between(min, max)
	out := make([]Entity, 0, n)
	for range n {
		out = append(out, makeCharacter(p, "", 0, 3))
	}
	return out
}
