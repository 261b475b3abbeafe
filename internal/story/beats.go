package story

import (
	"fmt"
	"strconv"
	"strings"

	"heroforge/internal/motif"
)

// Kind identifies a beat. Its value is the beat's index in Story.Beats.
type Kind int

const (
	KindOrdinaryWorld Kind = iota
	KindCallToAdventure
	KindRefusal
	KindMentor
	KindThreshold
	KindTests
	KindCave
	KindOrdeal
	KindReward
	KindRoadBack
	KindResurrection
	KindElixir
)

// BeatCount is the number of beats in every story.
const BeatCount = 12

var kindNames = [BeatCount]string{
	"ordinary-world",
	"call-to-adventure",
	"refusal",
	"mentor",
	"threshold",
	"tests",
	"cave",
	"ordeal",
	"reward",
	"road-back",
	"resurrection",
	"elixir",
}

var kindTitles = [BeatCount]string{
	"The Ordinary World",
	"The Call to Adventure",
	"Refusal of the Call",
	"Meeting the Mentor",
	"Crossing the Threshold",
	"Tests, Allies, and Enemies",
	"Approach to the Inmost Cave",
	"The Ordeal",
	"The Reward",
	"The Road Back",
	"The Resurrection",
	"Return with the Elixir",
}

// Kinds returns every beat kind in canonical order.
func Kinds() []Kind {
	out := make([]Kind, BeatCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is one of the twelve beats.
func (k Kind) Valid() bool {
	return k >= 0 && k < BeatCount
}

// String returns the wire name, e.g. "ordinary-world".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title returns the display title.
func (k Kind) Title() string {
	if !k.Valid() {
		return ""
	}
	return kindTitles[k]
}

// ParseKind accepts a wire name or a 0-based index.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if !Kind(n).Valid() {
			return 0, fmt.Errorf("%w: %d", ErrBeatIndex, n)
		}
		return Kind(n), nil
	}
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown beat %q", ErrBeatIndex, s)
}

// Beat is one stage of the journey. The set of implementations is closed;
// code that switches over beats must handle every type in this file.
type Beat interface {
	Kind() Kind
	Title() string
	clone() Beat
}

type OrdinaryWorld struct {
	Hero          Entity `json:"hero"`
	Companion     Entity `json:"companion"`
	Villain       Entity `json:"villain"`
	OriginalWorld Place  `json:"originalWorld"`
}

type CallToAdventure struct {
	Inciting    *motif.Value  `json:"inciting"`
	Herald      *motif.Value  `json:"herald"`
	HasToDoWith []motif.Value `json:"hasToDoWith" validate:"dive"`
	Lie         *motif.Value  `json:"lie"`
	BecauseOf   *Derived      `json:"becauseOf"`
}

type Refusal struct {
	Place       motif.Value   `json:"place"`
	Dissuade    *Entity       `json:"dissuade"`
	HasToDoWith []motif.Value `json:"hasToDoWith" validate:"dive"`
	BecauseOf   *Derived      `json:"becauseOf"`
}

type Mentor struct {
	Mentor            Entity        `json:"mentor"`
	Place             motif.Value   `json:"place"`
	SupernaturalBeing *motif.Value  `json:"supernaturalBeing"`
	Talismans         []motif.Value `json:"talismans" validate:"dive"`
	LearnsAbout       Derived       `json:"learnsAbout"`
	Trial             *motif.Value  `json:"trial"`
	HeroGainsMod      *Modifier     `json:"heroGainsMod"`
	HeroLosesMod      *Modifier     `json:"heroLosesMod"`
}

type Threshold struct {
	HasToDoWith       *motif.Value `json:"hasToDoWith"`
	CompanionConflict *motif.Value `json:"companionConflict"`
	OtherWorld        Place        `json:"otherWorld"`
}

type Tests struct {
	Tests   []motif.Value `json:"tests" validate:"dive"`
	Allies  []Entity      `json:"allies" validate:"dive"`
	Enemies []Entity      `json:"enemies" validate:"dive"`
}

type Cave struct {
	Place         motif.Value   `json:"place"`
	ToRescue      []motif.Value `json:"toRescue" validate:"dive"`
	ToGetTalisman *motif.Value  `json:"toGetTalisman"`
	CursedBane    *motif.Value  `json:"cursedBane"`
	ToUndergo     *motif.Value  `json:"toUndergo"`
}

type Ordeal struct {
	Place        motif.Value   `json:"place"`
	PlaceMods    []Modifier    `json:"placeMods" validate:"dive"`
	HasToDoWith  []motif.Value `json:"hasToDoWith" validate:"dive"`
	HingesOn     []Derived     `json:"hingesOn" validate:"dive"`
	HeroGainsMod *Modifier     `json:"heroGainsMod"`
	HeroLosesMod *Modifier     `json:"heroLosesMod"`
}

type Reward struct {
	Reward      motif.Value `json:"reward"`
	HeroBecomes motif.Value `json:"heroBecomes"`
	HasToDoWith motif.Value `json:"hasToDoWith"`
	LossOf      *Derived    `json:"lossOf"`
}

type RoadBack struct {
	Place            motif.Value `json:"place"`
	PlaceMods        []Modifier  `json:"placeMods" validate:"dive"`
	AccompaniedBy    motif.Value `json:"accompaniedBy"`
	OriginalWorldMod *Modifier   `json:"originalWorldMod"`
}

type Resurrection struct {
	ContendWith  motif.Value `json:"contendWith"`
	ToAchieve    motif.Value `json:"toAchieve"`
	HeroGainsMod *Modifier   `json:"heroGainsMod"`
	HeroLosesMod *Modifier   `json:"heroLosesMod"`
}

// Elixir.ReturnsTo is generated and kept in exports even though the
// markdown projection does not show it.
type Elixir struct {
	Elixir         motif.Value `json:"elixir"`
	ReturnsTo      motif.Value `json:"returnsTo"`
	Transformation motif.Value `json:"transformation"`
	Resolution     motif.Value `json:"resolution"`
}

func (OrdinaryWorld) Kind() Kind   { return KindOrdinaryWorld }
func (CallToAdventure) Kind() Kind { return KindCallToAdventure }
func (Refusal) Kind() Kind         { return KindRefusal }
func (Mentor) Kind() Kind          { return KindMentor }
func (Threshold) Kind() Kind       { return KindThreshold }
func (Tests) Kind() Kind           { return KindTests }
func (Cave) Kind() Kind            { return KindCave }
func (Ordeal) Kind() Kind          { return KindOrdeal }
func (Reward) Kind() Kind          { return KindReward }
func (RoadBack) Kind() Kind        { return KindRoadBack }
func (Resurrection) Kind() Kind    { return KindResurrection }
func (Elixir) Kind() Kind          { return KindElixir }

func (b OrdinaryWorld) Title() string   { return b.Kind().Title() }
func (b CallToAdventure) Title() string { return b.Kind().Title() }
func (b Refusal) Title() string         { return b.Kind().Title() }
func (b Mentor) Title() string          { return b.Kind().Title() }
func (b Threshold) Title() string       { return b.Kind().Title() }
func (b Tests) Title() string           { return b.Kind().Title() }
func (b Cave) Title() string            { return b.Kind().Title() }
func (b Ordeal) Title() string          { return b.Kind().Title() }
func (b Reward) Title() string          { return b.Kind().Title() }
func (b RoadBack) Title() string        { return b.Kind().Title() }
func (b Resurrection) Title() string    { return b.Kind().Title() }
func (b Elixir) Title() string          { return b.Kind().Title() }

func (b OrdinaryWorld) clone() Beat {
	return OrdinaryWorld{
		Hero:          b.Hero.clone(),
		Companion:     b.Companion.clone(),
		Villain:       b.Villain.clone(),
		OriginalWorld: b.OriginalWorld.clone(),
	}
}

func (b CallToAdventure) clone() Beat {
	return CallToAdventure{
		Inciting:    clonePtr(b.Inciting),
		Herald:      clonePtr(b.Herald),
		HasToDoWith: cloneValues(b.HasToDoWith),
		Lie:         clonePtr(b.Lie),
		BecauseOf:   cloneDerivedPtr(b.BecauseOf),
	}
}

func (b Refusal) clone() Beat {
	return Refusal{
		Place:       b.Place,
		Dissuade:    cloneEntityPtr(b.Dissuade),
		HasToDoWith: cloneValues(b.HasToDoWith),
		BecauseOf:   cloneDerivedPtr(b.BecauseOf),
	}
}

func (b Mentor) clone() Beat {
	return Mentor{
		Mentor:            b.Mentor.clone(),
		Place:             b.Place,
		SupernaturalBeing: clonePtr(b.SupernaturalBeing),
		Talismans:         cloneValues(b.Talismans),
		LearnsAbout:       b.LearnsAbout.clone(),
		Trial:             clonePtr(b.Trial),
		HeroGainsMod:      clonePtr(b.HeroGainsMod),
		HeroLosesMod:      clonePtr(b.HeroLosesMod),
	}
}

func (b Threshold) clone() Beat {
	return Threshold{
		HasToDoWith:       clonePtr(b.HasToDoWith),
		CompanionConflict: clonePtr(b.CompanionConflict),
		OtherWorld:        b.OtherWorld.clone(),
	}
}

func (b Tests) clone() Beat {
	return Tests{
		Tests:   cloneValues(b.Tests),
		Allies:  cloneEntities(b.Allies),
		Enemies: cloneEntities(b.Enemies),
	}
}

func (b Cave) clone() Beat {
	return Cave{
		Place:         b.Place,
		ToRescue:      cloneValues(b.ToRescue),
		ToGetTalisman: clonePtr(b.ToGetTalisman),
		CursedBane:    clonePtr(b.CursedBane),
		ToUndergo:     clonePtr(b.ToUndergo),
	}
}

func (b Ordeal) clone() Beat {
	return Ordeal{
		Place:        b.Place,
		PlaceMods:    cloneMods(b.PlaceMods),
		HasToDoWith:  cloneValues(b.HasToDoWith),
		HingesOn:     cloneDerivedList(b.HingesOn),
		HeroGainsMod: clonePtr(b.HeroGainsMod),
		HeroLosesMod: clonePtr(b.HeroLosesMod),
	}
}

func (b Reward) clone() Beat {
	return Reward{
		Reward:      b.Reward,
		HeroBecomes: b.HeroBecomes,
		HasToDoWith: b.HasToDoWith,
		LossOf:      cloneDerivedPtr(b.LossOf),
	}
}

func (b RoadBack) clone() Beat {
	return RoadBack{
		Place:            b.Place,
		PlaceMods:        cloneMods(b.PlaceMods),
		AccompaniedBy:    b.AccompaniedBy,
		OriginalWorldMod: clonePtr(b.OriginalWorldMod),
	}
}

func (b Resurrection) clone() Beat {
	return Resurrection{
		ContendWith:  b.ContendWith,
		ToAchieve:    b.ToAchieve,
		HeroGainsMod: clonePtr(b.HeroGainsMod),
		HeroLosesMod: clonePtr(b.HeroLosesMod),
	}
}

func (b Elixir) clone() Beat {
	return b
}

// newBeat returns the zero value of the beat type for k. It panics on an
// unknown kind.
func newBeat(k Kind) Beat {
	switch k {
	case KindOrdinaryWorld:
		return OrdinaryWorld{}
	case KindCallToAdventure:
		return CallToAdventure{}
	case KindRefusal:
		return Refusal{}
	case KindMentor:
		return Mentor{}
	case KindThreshold:
		return Threshold{}
	case KindTests:
		return Tests{}
	case KindCave:
		return Cave{}
	case KindOrdeal:
		return Ordeal{}
	case KindReward:
		return Reward{}
	case KindRoadBack:
		return RoadBack{}
	case KindResurrection:
		return Resurrection{}
	case KindElixir:
		return Elixir{}
	default:
		panic(fmt.Sprintf("story: unknown beat kind %d", int(k)))
	}
}
