package motif

import (
	"heroforge/internal/logger"
	"heroforge/internal/roll"
)

// preferredOdds is how often a being draw narrows to its preferred
// subcategory instead of the general Being pool.
const preferredOdds = 0.7

// Picker resolves pool keys to concrete motif values.
type Picker struct {
	src  Source
	dice *roll.Roller
}

// NewPicker binds a pool source to a random source.
func NewPicker(src Source, dice *roll.Roller) *Picker {
	return &Picker{src: src, dice: dice}
}

// Source returns the pool source the picker draws from.
func (p *Picker) Source() Source {
	return p.src
}

// Pick draws uniformly from a pool. An empty pool yields a placeholder
// instead of an error so generation always completes.
func (p *Picker) Pick(k Key) Value {
	text, err := roll.Pick(p.dice, p.src.Get(k))
	if err != nil {
		logger.Warning("empty motif pool, using placeholder", "pool", string(k))
		return Placeholder(k)
	}
	return Value{Text: text, Pool: k}
}

// PickBeing draws a being. With a preference it narrows to that subcategory
// 70% of the time; the preference is recorded either way.
func (p *Picker) PickBeing(preferred Key) Value {
	if preferred == "" {
		return p.Pick(Being)
	}
	var v Value
	if p.dice.Chance(preferredOdds) {
		v = p.Pick(preferred)
	} else {
		v = p.Pick(Being)
	}
	v.Preferred = preferred
	return v
}

// PickAny chooses one of keys uniformly, then picks from it. With no keys
// there is no pool to draw from and the zero Value is returned.
func (p *Picker) PickAny(keys ...Key) Value {
	if len(keys) == 0 {
		return Value{}
	}
	return p.Pick(keys[p.dice.Intn(len(keys))])
}

// PickSupernatural draws a being preferring a random supernatural
// subcategory.
func (p *Picker) PickSupernatural() Value {
	return p.PickBeing(SupernaturalKeys[p.dice.Intn(len(SupernaturalKeys))])
}

// PickAnyMotif draws from any of the general categories.
func (p *Picker) PickAnyMotif() Value {
	return p.PickAny(GeneralKeys...)
}

// PickBeingOr is a coin flip between a being and a pick from keys.
func (p *Picker) PickBeingOr(keys ...Key) Value {
	if p.dice.Coin() {
		return p.PickBeing("")
	}
	return p.PickAny(keys...)
}

// Reroll draws a replacement for v from the same provenance. A preferred
// subcategory wins 70% of the time. If the target pool is empty v is
// returned unchanged.
func (p *Picker) Reroll(v Value) Value {
	target := v.Pool
	if v.Preferred != "" && p.dice.Chance(preferredOdds) {
		target = v.Preferred
	}
	text, err := roll.Pick(p.dice, p.src.Get(target))
	if err != nil {
		return v
	}
	return Value{Text: text, Pool: target, Preferred: v.Preferred}
}

func (p *Picker) Chance(prob float64) bool { return p.dice.Chance(prob) }

func (p *Picker) Coin() bool { return p.dice.Coin() }

func (p *Picker) Between(min, max int) int { return p.dice.Between(min, max) }

func (p *Picker) Intn(n int) int { return p.dice.Intn(n) }

// Sample returns k distinct indices from [0, n).
func (p *Picker) Sample(n, k int) []int { return p.dice.Sample(n, k) }
