package story

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"heroforge/internal/motif"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// storyJSON is the wire shape of Story. Beats carry a "type" tag naming
// their kind.
type storyJSON struct {
	Beats         []json.RawMessage `json:"beats"`
	Hero          Entity            `json:"hero"`
	Villain       Entity            `json:"villain"`
	Companion     Entity            `json:"companion"`
	OriginalWorld Place             `json:"originalWorld"`
	OtherWorld    Place             `json:"otherWorld"`
	Allies        []Entity          `json:"allies"`
	Talismans     []motif.Value     `json:"talismans"`
}

func (s Story) MarshalJSON() ([]byte, error) {
	w := storyJSON{
		Beats:         make([]json.RawMessage, 0, BeatCount),
		Hero:          s.Hero,
		Villain:       s.Villain,
		Companion:     s.Companion,
		OriginalWorld: s.OriginalWorld,
		OtherWorld:    s.OtherWorld,
		Allies:        s.Allies,
		Talismans:     s.Talismans,
	}
	for i, b := range s.Beats {
		if b == nil {
			return nil, fmt.Errorf("%w: beat %d is missing", ErrMalformedStory, i)
		}
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding beat %d: %w", i, err)
		}
		raw, err = sjson.SetBytes(raw, "type", b.Kind().String())
		if err != nil {
			return nil, fmt.Errorf("tagging beat %d: %w", i, err)
		}
		w.Beats = append(w.Beats, raw)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape and checks that exactly one beat of
// each kind is present in canonical order.
func (s *Story) UnmarshalJSON(data []byte) error {
	var w storyJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedStory, err)
	}
	if len(w.Beats) != BeatCount {
		return fmt.Errorf("%w: want %d beats, got %d", ErrMalformedStory, BeatCount, len(w.Beats))
	}
	out := Story{
		Hero:          w.Hero,
		Villain:       w.Villain,
		Companion:     w.Companion,
		OriginalWorld: w.OriginalWorld,
		OtherWorld:    w.OtherWorld,
		Allies:        w.Allies,
		Talismans:     w.Talismans,
	}
	for i, raw := range w.Beats {
		tag := gjson.GetBytes(raw, "type")
		if tag.Type != gjson.String {
			return fmt.Errorf("%w: beat %d has no type", ErrMalformedStory, i)
		}
		k, err := ParseKind(tag.Str)
		if err != nil {
			return fmt.Errorf("%w: beat %d: %v", ErrMalformedStory, i, err)
		}
		if int(k) != i {
			return fmt.Errorf("%w: beat %d is %q, want %q", ErrMalformedStory, i, k, Kind(i))
		}
		b, err := decodeBeat(k, raw)
		if err != nil {
			return fmt.Errorf("%w: beat %d: %v", ErrMalformedStory, i, err)
		}
		out.Beats[i] = b
	}
	*s = out
	return nil
}

func decodeAs[T Beat](raw []byte) (Beat, error) {
	var b T
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeBeat(k Kind, raw []byte) (Beat, error) {
	switch k {
	case KindOrdinaryWorld:
		return decodeAs[OrdinaryWorld](raw)
	case KindCallToAdventure:
		return decodeAs[CallToAdventure](raw)
	case KindRefusal:
		return decodeAs[Refusal](raw)
	case KindMentor:
		return decodeAs[Mentor](raw)
	case KindThreshold:
		return decodeAs[Threshold](raw)
	case KindTests:
		return decodeAs[Tests](raw)
	case KindCave:
		return decodeAs[Cave](raw)
	case KindOrdeal:
		return decodeAs[Ordeal](raw)
	case KindReward:
		return decodeAs[Reward](raw)
	case KindRoadBack:
		return decodeAs[RoadBack](raw)
	case KindResurrection:
		return decodeAs[Resurrection](raw)
	case KindElixir:
		return decodeAs[Elixir](raw)
	default:
		panic(fmt.Sprintf("story: unhandled beat kind %v", k))
	}
}

// Encode serializes s as indented JSON.
func Encode(s *Story) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses and validates an exported story. Every failure wraps
// ErrMalformedStory.
func Decode(data []byte) (*Story, error) {
	var s Story
	if err := json.Unmarshal(data, &s); err != nil {
		if !errors.Is(err, ErrMalformedStory) {
			err = fmt.Errorf("%w: %v", ErrMalformedStory, err)
		}
		return nil, err
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks required fields and modifier labels on every beat and
// shared field.
func Validate(s *Story) error {
	for i, b := range s.Beats {
		if b == nil || b.Kind() != Kind(i) {
			return fmt.Errorf("%w: beat %d is missing or out of order", ErrMalformedStory, i)
		}
		if err := validate.Struct(b); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedStory, Kind(i), err)
		}
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedStory, err)
	}
	return nil
}
