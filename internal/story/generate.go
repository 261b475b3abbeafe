package story

import "heroforge/internal/motif"

const unknownTalisman = "unknown talisman"

func pickValues(p *motif.Picker, n int, draw func() motif.Value) []motif.Value {
	out := make([]motif.Value, 0, n)
	for range n {
		out = append(out, draw())
	}
	return out
}

func maybe(p *motif.Picker, draw func() motif.Value) *motif.Value {
	if !p.Coin() {
		return nil
	}
	v := draw()
	return &v
}

func maybeDerived(p *motif.Picker, sources ...Source) *Derived {
	if !p.Coin() {
		return nil
	}
	return PickModifierOf(p, sources...)
}

// GenerateOrdinaryWorld builds the hero, companion, villain and home world.
// Half the time hero and villain share one Condition; the shared trait
// counts toward each character's modifier total.
func GenerateOrdinaryWorld(p *motif.Picker) OrdinaryWorld {
	shared := p.Coin()
	heroCount, villainCount := p.Between(2, 5), p.Between(2, 4)
	if shared {
		heroCount--
		villainCount--
	}
	hero := MakeEntity(p, p.PickBeing(motif.Human), CharacterModifiers, heroCount)
	companion := makeCharacter(p, motif.Human, 1, 3)
	villain := MakeEntity(p, p.PickBeing(""), CharacterModifiers, villainCount)
	if shared {
		trait := Modifier{Label: SharedTraitLabel, Value: p.Pick(motif.Condition)}
		hero.Mods = append(hero.Mods, trait)
		villain.Mods = append(villain.Mods, trait)
	}
	return OrdinaryWorld{
		Hero:          hero,
		Companion:     companion,
		Villain:       villain,
		OriginalWorld: MakePlace(p, PlaceModifiers, p.Between(2, 5)),
	}
}

func GenerateCallToAdventure(p *motif.Picker, hero, villain Entity, originalWorld Place) CallToAdventure {
	return CallToAdventure{
		Inciting: maybe(p, func() motif.Value {
			return p.PickAny(motif.Event, motif.Condition, motif.Outcome, motif.Action)
		}),
		Herald: maybe(p, func() motif.Value {
			if p.Coin() {
				return p.PickBeing(motif.Spirit)
			}
			return p.PickBeing(motif.Animal)
		}),
		HasToDoWith: pickValues(p, p.Between(1, 3), p.PickAnyMotif),
		Lie:         maybe(p, p.PickAnyMotif),
		BecauseOf: maybeDerived(p,
			entitySource(RoleHero, hero),
			placeSource(RoleOriginalWorld, originalWorld),
			entitySource(RoleVillain, villain),
		),
	}
}

func GenerateRefusal(p *motif.Picker, hero, companion, villain Entity) Refusal {
	b := Refusal{Place: p.Pick(motif.Place)}
	if p.Coin() {
		d := makeCharacter(p, "", 0, 3)
		b.Dissuade = &d
	}
	b.HasToDoWith = pickValues(p, p.Between(1, 3), p.PickAnyMotif)
	b.BecauseOf = maybeDerived(p,
		entitySource(RoleHero, hero),
		entitySource(RoleCompanion, companion),
		entitySource(RoleVillain, villain),
	)
	return b
}

// GenerateMentor always fills LearnsAbout: when no source has modifiers it
// falls back to the text of a generic motif.
func GenerateMentor(p *motif.Picker, hero, villain Entity, otherWorld Place) Mentor {
	b := Mentor{
		Mentor:            MakeEntity(p, p.PickSupernatural(), CharacterModifiers, p.Between(1, 3)),
		Place:             p.Pick(motif.Place),
		SupernaturalBeing: maybe(p, p.PickSupernatural),
		Talismans: pickValues(p, p.Between(1, 3), func() motif.Value {
			return p.Pick(motif.Object)
		}),
	}
	if d := PickModifierOf(p,
		entitySource(RoleVillain, villain),
		placeSource(RoleOtherWorld, otherWorld),
		entitySource(RoleHero, hero),
	); d != nil {
		b.LearnsAbout = *d
	} else {
		b.LearnsAbout = Derived{Text: p.PickAnyMotif().Text}
	}
	b.Trial = maybe(p, func() motif.Value { return p.PickAny(motif.Action, motif.Event) })
	b.HeroGainsMod = optionalModifier(p, CharacterModifiers)
	b.HeroLosesMod = optionalModifier(p, CharacterModifiers)
	return b
}

func GenerateThreshold(p *motif.Picker, otherWorld Place) Threshold {
	return Threshold{
		HasToDoWith: maybe(p, p.PickAnyMotif),
		CompanionConflict: maybe(p, func() motif.Value {
			return p.PickAny(motif.Object, motif.Outcome, motif.Event, motif.Action, motif.Condition, motif.Attribute)
		}),
		OtherWorld: otherWorld.clone(),
	}
}

func GenerateTests(p *motif.Picker) Tests {
	return Tests{
		Tests: pickValues(p, p.Between(1, 3), func() motif.Value {
			return p.PickAny(motif.Action, motif.Event)
		}),
		Allies:  makeCharacters(p, 1, 3),
		Enemies: makeCharacters(p, 1, 3),
	}
}

// GenerateCave may name an existing ally as someone to rescue.
func GenerateCave(p *motif.Picker, allies []Entity) Cave {
	b := Cave{Place: p.Pick(motif.Place)}
	b.ToRescue = pickValues(p, p.Between(0, 2), func() motif.Value {
		if p.Coin() && len(allies) > 0 {
			return allies[p.Intn(len(allies))].Name
		}
		return p.PickBeing("")
	})
	b.ToGetTalisman = maybe(p, func() motif.Value { return p.Pick(motif.Object) })
	b.CursedBane = maybe(p, func() motif.Value { return p.Pick(motif.Condition) })
	b.ToUndergo = maybe(p, func() motif.Value { return p.PickAny(motif.Action, motif.Event) })
	return b
}

func GenerateOrdeal(p *motif.Picker, hero, villain Entity, talismans []motif.Value) Ordeal {
	b := Ordeal{
		Place:       p.Pick(motif.Place),
		PlaceMods:   attachModifiers(p, PlaceModifiers, p.Between(0, 2)),
		HasToDoWith: pickValues(p, p.Between(0, 2), p.PickAnyMotif),
	}
	n := p.Between(0, 2)
	b.HingesOn = make([]Derived, 0, n)
	for range n {
		d := PickModifierOf(p, entitySource(RoleVillain, villain), entitySource(RoleHero, hero))
		if d == nil {
			name := unknownTalisman
			if len(talismans) > 0 {
				name = talismans[0].Text
			}
			d = &Derived{Text: "**" + name + "**"}
		}
		b.HingesOn = append(b.HingesOn, *d)
	}
	b.HeroGainsMod = optionalModifier(p, CharacterModifiers)
	b.HeroLosesMod = optionalModifier(p, CharacterModifiers)
	return b
}

// GenerateReward may record the loss of an ally or a talisman. LossOf is
// nil when the list it drew from is empty.
func GenerateReward(p *motif.Picker, allies []Entity, talismans []motif.Value) Reward {
	b := Reward{
		Reward:      p.Pick(motif.Object),
		HeroBecomes: p.PickBeingOr(motif.Condition),
		HasToDoWith: p.PickAnyMotif(),
	}
	if p.Coin() {
		if p.Coin() {
			if len(allies) > 0 {
				b.LossOf = &Derived{Text: allies[p.Intn(len(allies))].Name.Text}
			}
		} else if len(talismans) > 0 {
			b.LossOf = &Derived{Text: talismans[p.Intn(len(talismans))].Text}
		}
	}
	return b
}

func GenerateRoadBack(p *motif.Picker) RoadBack {
	b := RoadBack{
		Place:     p.Pick(motif.Place),
		PlaceMods: attachModifiers(p, PlaceModifiers, p.Between(1, 3)),
	}
	if p.Coin() {
		b.AccompaniedBy = p.Pick(motif.Object)
	} else {
		b.AccompaniedBy = p.PickBeing("")
	}
	b.OriginalWorldMod = optionalModifier(p, PlaceModifiers)
	return b
}

func GenerateResurrection(p *motif.Picker) Resurrection {
	return Resurrection{
		ContendWith:  p.PickBeingOr(motif.GeneralKeys...),
		ToAchieve:    p.PickBeingOr(motif.GeneralKeys...),
		HeroGainsMod: optionalModifier(p, CharacterModifiers),
		HeroLosesMod: optionalModifier(p, CharacterModifiers),
	}
}

func GenerateElixir(p *motif.Picker) Elixir {
	return Elixir{
		Elixir:         p.Pick(motif.Object),
		ReturnsTo:      p.Pick(motif.Place),
		Transformation: p.PickBeingOr(motif.Condition),
		Resolution:     p.PickAny(motif.Outcome, motif.Event, motif.Condition),
	}
}
