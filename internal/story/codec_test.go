package story

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func TestCodecRoundTrip(t *testing.T) {
	p := testPicker(61)
	for i := 0; i < 50; i++ {
		s := Generate(p)
		data, err := Encode(s)
		if err != nil {
			t.Fatalf("run %d: encode: %v", i, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("run %d: decode: %v", i, err)
		}
		if !reflect.DeepEqual(got, s) {
			t.Fatalf("run %d: expected lossless round trip", i)
		}
	}
}

func TestEncodeTagsBeats(t *testing.T) {
	data, err := Encode(testStory(t, 62))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	beats := gjson.GetBytes(data, "beats").Array()
	if len(beats) != BeatCount {
		t.Fatalf("expected %d beats, got %d", BeatCount, len(beats))
	}
	for i, b := range beats {
		if got := b.Get("type").String(); got != Kind(i).String() {
			t.Fatalf("expected beat %d tagged %q, got %q", i, Kind(i), got)
		}
	}
	if !gjson.GetBytes(data, "hero.name.preferred").Exists() {
		t.Fatal("expected the hero's preferred subcategory to be exported")
	}
	if v := gjson.GetBytes(data, "beats.0.hero.mods"); !v.IsArray() {
		t.Fatalf("expected mods to encode as an array, got %s", v.Raw)
	}
}

func TestDecodeLegacyDerivedText(t *testing.T) {
	data, err := Encode(testStory(t, 63))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = sjson.SetBytes(data, "beats.1.becauseOf", `Old's "wants: a sword"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = sjson.SetBytes(data, "beats.3.learnsAbout", "the old ways")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := s.CallToAdventure().BecauseOf; b == nil || b.Text != `Old's "wants: a sword"` || b.Ref != nil {
		t.Fatalf("expected plain derived text, got %+v", b)
	}
	if got := s.Mentor().LearnsAbout; got.Text != "the old ways" {
		t.Fatalf("expected plain learnsAbout, got %+v", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	good, err := Encode(testStory(t, 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mutate := func(path string, value any) []byte {
		out, err := sjson.SetBytes(good, path, value)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}
	remove := func(path string) []byte {
		out, err := sjson.DeleteBytes(good, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"not json", []byte("{"), ""},
		{"missing beat", remove("beats.11"), "want 12 beats"},
		{"beats out of order", mutate("beats.0.type", "elixir"), "beat 0"},
		{"untagged beat", remove("beats.2.type"), "no type"},
		{"unknown tag", mutate("beats.2.type", "epilogue"), "epilogue"},
		{"missing motif text", mutate("beats.0.hero.name.text", ""), "ordinary-world"},
		{"missing modifier label", mutate("hero.mods.0.label", ""), "Label"},
		{"mandatory learnsAbout", mutate("beats.3.learnsAbout", nil), "mentor"},
		{"bad reference role", mutate("beats.3.learnsAbout", map[string]any{
			"text": "x", "ref": map[string]any{"source": "mentor", "label": "wants"},
		}), "mentor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrMalformedStory) {
				t.Fatalf("expected ErrMalformedStory, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}
