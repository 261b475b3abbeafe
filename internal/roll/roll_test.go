package roll

import (
	"errors"
	"testing"
)

func TestPick(t *testing.T) {
	r := New(1)

	t.Run("empty list", func(t *testing.T) {
		_, err := Pick(r, []string{})
		if !errors.Is(err, ErrEmptyPool) {
			t.Fatalf("expected ErrEmptyPool, got %v", err)
		}
	})

	t.Run("returns an element of the list", func(t *testing.T) {
		list := []string{"a", "b", "c"}
		seen := make(map[string]int)
		for i := 0; i < 300; i++ {
			v, err := Pick(r, list)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			seen[v]++
		}
		for _, item := range list {
			if seen[item] == 0 {
				t.Fatalf("expected %q to be picked at least once in 300 draws", item)
			}
		}
		if len(seen) != len(list) {
			t.Fatalf("picked values outside the list: %v", seen)
		}
	})
}

func TestBetween(t *testing.T) {
	r := New(0)
	hits := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := r.Between(2, 5)
		if v < 2 || v > 5 {
			t.Fatalf("Between(2, 5) = %d, expected 2-5", v)
		}
		hits[v] = true
	}
	for v := 2; v <= 5; v++ {
		if !hits[v] {
			t.Fatalf("expected %d to appear in 500 draws", v)
		}
	}

	if v := r.Between(3, 3); v != 3 {
		t.Fatalf("Between(3, 3) = %d, expected 3", v)
	}
	if v := r.Between(4, 1); v < 1 || v > 4 {
		t.Fatalf("Between(4, 1) = %d, expected 1-4", v)
	}
}

func TestChance(t *testing.T) {
	r := New(42)
	if r.Chance(0) {
		t.Fatalf("Chance(0) must never succeed")
	}
	if !r.Chance(1) {
		t.Fatalf("Chance(1) must always succeed")
	}

	heads := 0
	const n = 4000
	for i := 0; i < n; i++ {
		if r.Coin() {
			heads++
		}
	}
	if heads < n*4/10 || heads > n*6/10 {
		t.Fatalf("expected roughly half heads, got %d of %d", heads, n)
	}
}

func TestSample(t *testing.T) {
	r := New(7)

	t.Run("distinct indices", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			got := r.Sample(5, 3)
			if len(got) != 3 {
				t.Fatalf("expected 3 indices, got %v", got)
			}
			seen := make(map[int]bool)
			for _, idx := range got {
				if idx < 0 || idx >= 5 {
					t.Fatalf("index out of range: %v", got)
				}
				if seen[idx] {
					t.Fatalf("duplicate index: %v", got)
				}
				seen[idx] = true
			}
		}
	})

	t.Run("clamped to population", func(t *testing.T) {
		if got := r.Sample(2, 5); len(got) != 2 {
			t.Fatalf("expected 2 indices, got %v", got)
		}
		if got := r.Sample(3, 0); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestSeedIsReproducible(t *testing.T) {
	a := New(99)
	b := New(99)
	for i := 0; i < 20; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatalf("rollers with the same seed diverged at draw %d", i)
		}
	}
	if a.Seed() != 99 {
		t.Fatalf("expected seed 99, got %d", a.Seed())
	}
}
