package story

import (
	"reflect"
	"strings"
	"testing"

	"heroforge/internal/motif"
	"heroforge/internal/roll"
)

func TestGenerateOrdinaryWorldArity(t *testing.T) {
	p := testPicker(7)
	for i := 0; i < 1000; i++ {
		w := GenerateOrdinaryWorld(p)
		if n := len(w.Hero.Mods); n < 2 || n > 5 {
			t.Fatalf("run %d: hero has %d mods, want 2-5", i, n)
		}
		if n := len(w.Companion.Mods); n < 1 || n > 3 {
			t.Fatalf("run %d: companion has %d mods, want 1-3", i, n)
		}
		if n := len(w.Villain.Mods); n < 2 || n > 4 {
			t.Fatalf("run %d: villain has %d mods, want 2-4", i, n)
		}
		if n := len(w.OriginalWorld.Mods); n < 2 || n > 5 {
			t.Fatalf("run %d: original world has %d mods, want 2-5", i, n)
		}
		for _, e := range []Entity{w.Hero, w.Companion, w.Villain} {
			seen := map[string]bool{}
			for _, m := range e.Mods {
				if seen[m.Label] {
					t.Fatalf("run %d: duplicate label %q on %s", i, m.Label, e.Name.Text)
				}
				seen[m.Label] = true
			}
		}
	}
}

func TestGenerateOrdinaryWorldSharedTrait(t *testing.T) {
	p := testPicker(11)
	shared := 0
	for i := 0; i < 1000; i++ {
		w := GenerateOrdinaryWorld(p)
		hi := indexOfLabel(w.Hero.Mods, SharedTraitLabel)
		vi := indexOfLabel(w.Villain.Mods, SharedTraitLabel)
		if (hi < 0) != (vi < 0) {
			t.Fatalf("run %d: shared trait on only one side (hero %d, villain %d)", i, hi, vi)
		}
		if hi < 0 {
			continue
		}
		shared++
		if w.Hero.Mods[hi] != w.Villain.Mods[vi] {
			t.Fatalf("run %d: expected identical trait, got %+v and %+v", i, w.Hero.Mods[hi], w.Villain.Mods[vi])
		}
		if w.Hero.Mods[hi].Value.Pool != motif.Condition {
			t.Fatalf("run %d: expected Condition trait, got %q", i, w.Hero.Mods[hi].Value.Pool)
		}
	}
	if shared < 400 || shared > 600 {
		t.Fatalf("expected roughly half the worlds to share a trait, got %d of 1000", shared)
	}
}

func TestGenerate(t *testing.T) {
	s := testStory(t, 3)

	t.Run("every beat is present in canonical order", func(t *testing.T) {
		for _, k := range Kinds() {
			b := s.Beats[k]
			if b == nil {
				t.Fatalf("expected beat %s, got nil", k)
			}
			if b.Kind() != k {
				t.Fatalf("expected beat %d to be %s, got %s", k, k, b.Kind())
			}
			if b.Title() == "" {
				t.Fatalf("expected a title for %s", k)
			}
		}
	})

	t.Run("shared fields equal their source beats", func(t *testing.T) {
		w := s.OrdinaryWorld()
		checks := []struct {
			name      string
			got, want any
		}{
			{"hero", s.Hero, w.Hero},
			{"villain", s.Villain, w.Villain},
			{"companion", s.Companion, w.Companion},
			{"originalWorld", s.OriginalWorld, w.OriginalWorld},
			{"otherWorld", s.OtherWorld, s.Threshold().OtherWorld},
			{"allies", s.Allies, s.Tests().Allies},
			{"talismans", s.Talismans, s.Mentor().Talismans},
		}
		for _, c := range checks {
			if !reflect.DeepEqual(c.got, c.want) {
				t.Fatalf("expected %s to match its beat, got %+v want %+v", c.name, c.got, c.want)
			}
		}
	})

	t.Run("mentor always learns about something", func(t *testing.T) {
		p := testPicker(5)
		for i := 0; i < 200; i++ {
			if Generate(p).Mentor().LearnsAbout.Text == "" {
				t.Fatalf("run %d: expected learnsAbout text", i)
			}
		}
	})
}

func TestGenerateFromEmptyPools(t *testing.T) {
	s := Generate(motif.NewPicker(motif.Pools{}, roll.New(1)))
	if !s.Hero.Name.IsPlaceholder() {
		t.Fatalf("expected placeholder hero, got %q", s.Hero.Name.Text)
	}
	if err := Validate(s); err != nil {
		t.Fatalf("expected placeholder story to validate, got %v", err)
	}
}

func TestMakeEntity(t *testing.T) {
	p := testPicker(2)

	t.Run("count is clamped to the catalog size", func(t *testing.T) {
		e := MakeEntity(p, val(motif.Human, "king"), PlaceModifiers, 50)
		if len(e.Mods) != len(PlaceModifiers) {
			t.Fatalf("expected %d mods, got %d", len(PlaceModifiers), len(e.Mods))
		}
	})

	t.Run("zero count yields an empty non-nil list", func(t *testing.T) {
		e := MakeEntity(p, val(motif.Human, "king"), CharacterModifiers, 0)
		if e.Mods == nil || len(e.Mods) != 0 {
			t.Fatalf("expected empty mods, got %#v", e.Mods)
		}
	})

	t.Run("place draws name and origin", func(t *testing.T) {
		pl := MakePlace(p, PlaceModifiers, 3)
		if pl.Name.Pool != motif.Place || pl.Origin.Pool != motif.Origin {
			t.Fatalf("expected Place/Origin pools, got %q/%q", pl.Name.Pool, pl.Origin.Pool)
		}
		if len(pl.Mods) != 3 {
			t.Fatalf("expected 3 mods, got %d", len(pl.Mods))
		}
	})
}

func TestPickModifierOf(t *testing.T) {
	p := testPicker(9)

	t.Run("returns nil without modifiers", func(t *testing.T) {
		got := PickModifierOf(p,
			Source{Role: RoleHero, Name: val(motif.Human, "king")},
			Source{Role: RoleVillain, Name: val(motif.Being, "giant"), Mods: []Modifier{}},
		)
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("formats and references the chosen modifier", func(t *testing.T) {
		got := PickModifierOf(p,
			Source{Role: RoleHero, Name: val(motif.Human, "king")},
			Source{Role: RoleVillain, Name: val(motif.Being, "giant"), Mods: []Modifier{
				{Label: "wants", Value: val(motif.Object, "a sword")},
			}},
		)
		want := &Derived{Text: `giant's "wants: a sword"`, Ref: &Ref{Source: RoleVillain, Label: "wants"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		text               string
		name, label, value string
		ok                 bool
	}{
		{`Old's "wants: a sword"`, "Old", "wants", "a sword", true},
		{`the king's "is bound by: a curse: of silence"`, "the king", "is bound by: a curse", "of silence", true},
		{"**magic ring**", "", "", "", false},
		{"free text", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, label, value, ok := ParseReference(tt.text)
			if ok != tt.ok || name != tt.name || label != tt.label || value != tt.value {
				t.Fatalf("expected (%q, %q, %q, %v), got (%q, %q, %q, %v)",
					tt.name, tt.label, tt.value, tt.ok, name, label, value, ok)
			}
			if ok && FormatReference(name, label, value) != tt.text {
				t.Fatalf("expected format to round trip %q", tt.text)
			}
		})
	}
}

func TestGenerateMentorFallback(t *testing.T) {
	p := testPicker(4)
	bare := Entity{Name: val(motif.Human, "king"), Mods: []Modifier{}}
	for i := 0; i < 100; i++ {
		m := GenerateMentor(p, bare, bare, Place{Name: val(motif.Place, "glass mountain")})
		if m.LearnsAbout.Text == "" || m.LearnsAbout.Ref != nil {
			t.Fatalf("run %d: expected plain fallback text, got %+v", i, m.LearnsAbout)
		}
		if n := len(m.Talismans); n < 1 || n > 3 {
			t.Fatalf("run %d: expected 1-3 talismans, got %d", i, n)
		}
	}
}

func TestGenerateOrdealHingesFallback(t *testing.T) {
	p := testPicker(6)
	bare := Entity{Name: val(motif.Human, "king")}
	for i := 0; i < 100; i++ {
		o := GenerateOrdeal(p, bare, bare, nil)
		for _, h := range o.HingesOn {
			if h.Text != "**unknown talisman**" {
				t.Fatalf("run %d: expected unknown talisman, got %q", i, h.Text)
			}
		}
		o = GenerateOrdeal(p, bare, bare, []motif.Value{val(motif.Object, "magic ring")})
		for _, h := range o.HingesOn {
			if h.Text != "**magic ring**" {
				t.Fatalf("run %d: expected first talisman, got %q", i, h.Text)
			}
		}
		if len(o.HingesOn) > 2 || len(o.PlaceMods) > 2 || len(o.HasToDoWith) > 2 {
			t.Fatalf("run %d: expected at most 2 entries per list, got %+v", i, o)
		}
	}
}

func TestGenerateCaveRescuesAllies(t *testing.T) {
	p := testPicker(8)
	allies := []Entity{{Name: val(motif.Human, "shepherd")}}
	rescued := false
	for i := 0; i < 300; i++ {
		c := GenerateCave(p, allies)
		if len(c.ToRescue) > 2 {
			t.Fatalf("run %d: expected at most 2 to rescue, got %d", i, len(c.ToRescue))
		}
		for _, v := range c.ToRescue {
			if v.Text == "shepherd" {
				rescued = true
			}
		}
	}
	if !rescued {
		t.Fatal("expected an ally to need rescuing at least once")
	}
}

func TestGenerateRewardLoss(t *testing.T) {
	p := testPicker(10)
	for i := 0; i < 200; i++ {
		if r := GenerateReward(p, nil, nil); r.LossOf != nil {
			t.Fatalf("run %d: expected no loss without allies or talismans, got %+v", i, r.LossOf)
		}
	}
	allies := []Entity{{Name: val(motif.Human, "shepherd")}}
	talismans := []motif.Value{val(motif.Object, "magic ring")}
	for i := 0; i < 200; i++ {
		r := GenerateReward(p, allies, talismans)
		if r.LossOf != nil && r.LossOf.Text != "shepherd" && r.LossOf.Text != "magic ring" {
			t.Fatalf("run %d: unexpected loss %q", i, r.LossOf.Text)
		}
	}
}

func TestGenerateRoadBackArity(t *testing.T) {
	p := testPicker(12)
	for i := 0; i < 200; i++ {
		r := GenerateRoadBack(p)
		if n := len(r.PlaceMods); n < 1 || n > 3 {
			t.Fatalf("run %d: expected 1-3 place mods, got %d", i, n)
		}
		for _, m := range r.PlaceMods {
			if _, ok := PlaceModifiers.Lookup(m.Label); !ok {
				t.Fatalf("run %d: %q is not a place modifier", i, m.Label)
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("expected %s to parse, got %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("12"); err == nil {
		t.Fatal("expected error for index 12")
	}
	if _, err := ParseKind("epilogue"); err == nil || !strings.Contains(err.Error(), "epilogue") {
		t.Fatalf("expected unknown beat error, got %v", err)
	}
}
