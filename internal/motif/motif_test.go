package motif

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"heroforge/internal/roll"
)

func testPools() Pools {
	return Pools{
		Being:  {"giant", "troll"},
		Human:  {"king", "shepherd"},
		Spirit: {"ghost"},
		Deity:  {"sky god"},
		Object: {"magic ring"},
		Place:  {"glass mountain"},
	}
}

func TestPickEmptyPoolFallsBack(t *testing.T) {
	p := NewPicker(Pools{}, roll.New(1))
	for _, k := range append(append([]Key{}, GeneralKeys...), BeingKeys...) {
		got := p.Pick(k)
		want := Value{Text: "[unknown " + string(k) + "]", Pool: k}
		if got != want {
			t.Fatalf("Pick(%q) = %+v, want %+v", k, got, want)
		}
		if !got.IsPlaceholder() {
			t.Fatalf("expected placeholder for %q", k)
		}
	}
}

func TestPreferredBeingPlaceholder(t *testing.T) {
	p := NewPicker(Pools{}, roll.New(4))
	for i := 0; i < 50; i++ {
		v := p.PickBeing(Human)
		if v.Preferred != Human {
			t.Fatalf("expected preferred tag, got %+v", v)
		}
		if !v.IsPlaceholder() {
			t.Fatalf("expected preferred being %+v to be a placeholder", v)
		}
	}

	tagged := Value{Text: "king", Pool: Human, Preferred: Human}
	if tagged.IsPlaceholder() {
		t.Fatalf("real preferred being reported as placeholder")
	}
}

func TestPickAnyWithoutKeys(t *testing.T) {
	p := NewPicker(testPools(), roll.New(6))
	if got := p.PickAny(); got != (Value{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestPick(t *testing.T) {
	p := NewPicker(testPools(), roll.New(3))
	got := p.Pick(Object)
	if got != (Value{Text: "magic ring", Pool: Object}) {
		t.Fatalf("unexpected value: %+v", got)
	}
	if got.IsPlaceholder() {
		t.Fatalf("real motif reported as placeholder")
	}
}

func TestPickBeing(t *testing.T) {
	p := NewPicker(testPools(), roll.New(5))

	t.Run("no preference draws from Being", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			v := p.PickBeing("")
			if v.Pool != Being || v.Preferred != "" {
				t.Fatalf("unexpected value: %+v", v)
			}
		}
	})

	t.Run("preference is tagged and mostly honoured", func(t *testing.T) {
		preferred := 0
		const n = 2000
		for i := 0; i < n; i++ {
			v := p.PickBeing(Human)
			if v.Preferred != Human {
				t.Fatalf("expected preferred tag, got %+v", v)
			}
			switch v.Pool {
			case Human:
				preferred++
			case Being:
			default:
				t.Fatalf("unexpected pool %q", v.Pool)
			}
		}
		if preferred < n*6/10 || preferred > n*8/10 {
			t.Fatalf("expected about 70%% preferred draws, got %d of %d", preferred, n)
		}
	})
}

func TestPickSupernatural(t *testing.T) {
	p := NewPicker(testPools(), roll.New(11))
	for i := 0; i < 200; i++ {
		v := p.PickSupernatural()
		found := false
		for _, k := range SupernaturalKeys {
			if v.Preferred == k {
				found = true
			}
		}
		if !found {
			t.Fatalf("preferred %q is not supernatural", v.Preferred)
		}
	}
}

func TestPickAnyMotif(t *testing.T) {
	p := NewPicker(Pools{}, roll.New(2))
	for i := 0; i < 100; i++ {
		v := p.PickAnyMotif()
		ok := false
		for _, k := range GeneralKeys {
			if v.Pool == k {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("pool %q is not a general key", v.Pool)
		}
	}
}

func TestReroll(t *testing.T) {
	p := NewPicker(testPools(), roll.New(8))

	t.Run("keeps preferred tag", func(t *testing.T) {
		in := Value{Text: "troll", Pool: Being, Preferred: Human}
		for i := 0; i < 100; i++ {
			out := p.Reroll(in)
			if out.Preferred != Human {
				t.Fatalf("preferred lost: %+v", out)
			}
			if out.Pool != Human && out.Pool != Being {
				t.Fatalf("unexpected pool: %+v", out)
			}
		}
	})

	t.Run("empty target pool is a no-op", func(t *testing.T) {
		in := Value{Text: "a storm", Pool: Event}
		if out := p.Reroll(in); out != in {
			t.Fatalf("expected unchanged value, got %+v", out)
		}
	})

	t.Run("draws from the same pool", func(t *testing.T) {
		in := Value{Text: "old", Pool: Object}
		if out := p.Reroll(in); out != (Value{Text: "magic ring", Pool: Object}) {
			t.Fatalf("unexpected reroll: %+v", out)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		pools, err := LoadFile(filepath.Join("testdata", "pools.json"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(pools.Get(Human), []string{"king", "shepherd"}) {
			t.Fatalf("unexpected Human pool: %#v", pools.Get(Human))
		}
		if pools.Get(Event) != nil {
			t.Fatalf("absent key must yield nil")
		}
		if pools.Len() != 9 {
			t.Fatalf("expected 9 motifs, got %d", pools.Len())
		}
		wantKeys := []Key{Being, Human, Object, Place, Spirit}
		if !reflect.DeepEqual(pools.Keys(), wantKeys) {
			t.Fatalf("unexpected keys: %v", pools.Keys())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := Decode(strings.NewReader(`{"Being": "not a list"}`)); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	var sb strings.Builder
	in := testPools()
	if err := in.Encode(&sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := Decode(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %#v vs %#v", in, out)
	}
}

func TestIsBeing(t *testing.T) {
	if !IsBeing(Being) || !IsBeing(WitchSorcerer) {
		t.Fatalf("expected being keys")
	}
	if IsBeing(Object) {
		t.Fatalf("Object is not a being key")
	}
}
