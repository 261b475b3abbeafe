// Package story holds the Hero's Journey outline model and the engine that
// generates, regenerates and synchronizes it.
package story

import (
	"fmt"

	"heroforge/internal/motif"
)

// Story is a complete outline. Beats[i] always has Kind i. The top-level
// shared fields are projections of their source beats, refreshed by Sync.
type Story struct {
	Beats         [BeatCount]Beat `validate:"-"`
	Hero          Entity
	Villain       Entity
	Companion     Entity
	OriginalWorld Place
	OtherWorld    Place
	Allies        []Entity      `validate:"dive"`
	Talismans     []motif.Value `validate:"dive"`
}

// Generate builds a new story, threading shared state from earlier beats
// into the beats that depend on it.
func Generate(p *motif.Picker) *Story {
	s := &Story{}
	world := GenerateOrdinaryWorld(p)
	otherWorld := MakePlace(p, PlaceModifiers, p.Between(2, 5))
	s.Beats[KindOrdinaryWorld] = world
	s.Beats[KindCallToAdventure] = GenerateCallToAdventure(p, world.Hero, world.Villain, world.OriginalWorld)
	s.Beats[KindRefusal] = GenerateRefusal(p, world.Hero, world.Companion, world.Villain)
	mentor := GenerateMentor(p, world.Hero, world.Villain, otherWorld)
	s.Beats[KindMentor] = mentor
	s.Beats[KindThreshold] = GenerateThreshold(p, otherWorld)
	tests := GenerateTests(p)
	s.Beats[KindTests] = tests
	s.Beats[KindCave] = GenerateCave(p, tests.Allies)
	s.Beats[KindOrdeal] = GenerateOrdeal(p, world.Hero, world.Villain, mentor.Talismans)
	s.Beats[KindReward] = GenerateReward(p, tests.Allies, mentor.Talismans)
	s.Beats[KindRoadBack] = GenerateRoadBack(p)
	s.Beats[KindResurrection] = GenerateResurrection(p)
	s.Beats[KindElixir] = GenerateElixir(p)
	s.project()
	return s
}

// project copies every shared field from its source beat.
func (s *Story) project() {
	world := s.OrdinaryWorld()
	s.Hero = world.Hero.clone()
	s.Villain = world.Villain.clone()
	s.Companion = world.Companion.clone()
	s.OriginalWorld = world.OriginalWorld.clone()
	s.OtherWorld = s.Threshold().OtherWorld.clone()
	s.Allies = cloneEntities(s.Tests().Allies)
	s.Talismans = cloneValues(s.Mentor().Talismans)
}

// Clone returns a deep copy.
func (s *Story) Clone() *Story {
	out := &Story{
		Hero:          s.Hero.clone(),
		Villain:       s.Villain.clone(),
		Companion:     s.Companion.clone(),
		OriginalWorld: s.OriginalWorld.clone(),
		OtherWorld:    s.OtherWorld.clone(),
		Allies:        cloneEntities(s.Allies),
		Talismans:     cloneValues(s.Talismans),
	}
	for i, b := range s.Beats {
		if b != nil {
			out.Beats[i] = b.clone()
		}
	}
	return out
}

// Title names the story after its hero and villain.
func (s *Story) Title() string {
	return fmt.Sprintf("%s against %s", s.Hero.Name.Text, s.Villain.Name.Text)
}

// Beat returns the beat at k.
func (s *Story) Beat(k Kind) (Beat, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrBeatIndex, int(k))
	}
	return s.Beats[k], nil
}

// Sources lists the shared entities and places in Roles order.
func (s *Story) Sources() []Source {
	return []Source{
		entitySource(RoleHero, s.Hero),
		entitySource(RoleVillain, s.Villain),
		entitySource(RoleCompanion, s.Companion),
		placeSource(RoleOriginalWorld, s.OriginalWorld),
		placeSource(RoleOtherWorld, s.OtherWorld),
	}
}

func (s *Story) OrdinaryWorld() OrdinaryWorld { return s.Beats[KindOrdinaryWorld].(OrdinaryWorld) }

func (s *Story) CallToAdventure() CallToAdventure {
	return s.Beats[KindCallToAdventure].(CallToAdventure)
}

func (s *Story) Refusal() Refusal           { return s.Beats[KindRefusal].(Refusal) }
func (s *Story) Mentor() Mentor             { return s.Beats[KindMentor].(Mentor) }
func (s *Story) Threshold() Threshold       { return s.Beats[KindThreshold].(Threshold) }
func (s *Story) Tests() Tests               { return s.Beats[KindTests].(Tests) }
func (s *Story) Cave() Cave                 { return s.Beats[KindCave].(Cave) }
func (s *Story) Ordeal() Ordeal             { return s.Beats[KindOrdeal].(Ordeal) }
func (s *Story) Reward() Reward             { return s.Beats[KindReward].(Reward) }
func (s *Story) RoadBack() RoadBack         { return s.Beats[KindRoadBack].(RoadBack) }
func (s *Story) Resurrection() Resurrection { return s.Beats[KindResurrection].(Resurrection) }
func (s *Story) Elixir() Elixir             { return s.Beats[KindElixir].(Elixir) }
