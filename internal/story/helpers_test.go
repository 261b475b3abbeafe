package story

import (
	"fmt"
	"strings"
	"testing"

	"heroforge/internal/motif"
	"heroforge/internal/roll"
)

// bigPools has enough motifs per pool that two independent draws of a beat
// practically never coincide.
func bigPools() motif.Pools {
	pools := motif.Pools{}
	keys := append([]motif.Key{motif.Being}, motif.GeneralKeys...)
	keys = append(keys, motif.BeingKeys...)
	for _, k := range keys {
		for i := range 500 {
			pools[k] = append(pools[k], fmt.Sprintf("%s %d", strings.ToLower(string(k)), i))
		}
	}
	return pools
}

func testPicker(seed int64) *motif.Picker {
	return motif.NewPicker(bigPools(), roll.New(seed))
}

func testStory(t *testing.T, seed int64) *Story {
	t.Helper()
	return Generate(testPicker(seed))
}

// withHero returns a copy of s whose beat 0 hero is hero, with shared
// fields reprojected.
func withHero(s *Story, hero Entity) *Story {
	out := s.Clone()
	w := out.OrdinaryWorld()
	w.Hero = hero
	out.Beats[KindOrdinaryWorld] = w
	out.project()
	return out
}

func withBecauseOf(s *Story, d *Derived) *Story {
	out := s.Clone()
	b := out.CallToAdventure()
	b.BecauseOf = d
	out.Beats[KindCallToAdventure] = b
	return out
}

func val(k motif.Key, text string) motif.Value {
	return motif.Value{Text: text, Pool: k}
}
