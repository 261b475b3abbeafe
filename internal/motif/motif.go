// Package motif holds the motif lexicon: pool keys, the immutable pool
// source, motif values with provenance, and the picker that draws from them.
package motif

// Key names a pool: one of the general categories or a being subcategory.
type Key string

const (
	Event     Key = "Event"
	Condition Key = "Condition"
	Outcome   Key = "Outcome"
	Action    Key = "Action"
	Object    Key = "Object"
	Place     Key = "Place"
	Origin    Key = "Origin"
	Attribute Key = "Attribute"

	Being         Key = "Being"
	Human         Key = "Human"
	Spirit        Key = "Spirit"
	Animal        Key = "Animal"
	Deity         Key = "Deity"
	Monster       Key = "Monster"
	WitchSorcerer Key = "Witch/Sorcerer"
)

// GeneralKeys is the key set drawn by PickAnyMotif.
var GeneralKeys = []Key{Event, Condition, Outcome, Action, Object, Place, Origin, Attribute}

// SupernaturalKeys is the preference set drawn by PickSupernatural.
var SupernaturalKeys = []Key{WitchSorcerer, Deity, Monster, Spirit}

// BeingKeys lists the being subcategories.
var BeingKeys = []Key{Human, Spirit, Animal, Deity, Monster, WitchSorcerer}

// IsBeing reports whether k is Being or one of its subcategories.
func IsBeing(k Key) bool {
	if k == Being {
		return true
	}
	for _, b := range BeingKeys {
		if b == k {
			return true
		}
	}
	return false
}

// Value is a drawn motif. Pool records where it came from; Preferred, when
// set, is the being subcategory later rerolls should lean towards.
type Value struct {
	Text      string `json:"text" validate:"required"`
	Pool      Key    `json:"pool" validate:"required"`
	Preferred Key    `json:"preferred,omitempty"`
}

// String returns the motif text.
func (v Value) String() string {
	return v.Text
}

// Placeholder is the visible gap left when a pool is empty.
func Placeholder(k Key) Value {
	return Value{Text: "[unknown " + string(k) + "]", Pool: k}
}

// IsPlaceholder reports whether v was produced by Placeholder. Preferred is
// ignored since being draws tag it onto whatever Pick returned.
func (v Value) IsPlaceholder() bool {
	return v.Text == Placeholder(v.Pool).Text
}
