// Package check reports consistency problems in a story outline.
package check

import (
	"fmt"
	"reflect"

	"heroforge/internal/motif"
	"heroforge/internal/story"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeProjectionDrift     = "projection_drift"
	codeDuplicateLabel      = "duplicate_label"
	codePlaceholderMotif    = "placeholder_motif"
	codeUnresolvedReference = "unresolved_reference"
	codeStaleReference      = "stale_reference"
	codeEmptyPool           = "empty_pool"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Path     string
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue is an error.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func Run(s *story.Story) (*Report, error) {
	if s == nil {
		return nil, fmt.Errorf("story is required")
	}
	if err := story.Validate(s); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0)
	issues = append(issues, checkProjections(s)...)
	issues = append(issues, checkLabels(s)...)
	issues = append(issues, checkPlaceholders(s)...)
	issues = append(issues, checkReferences(s)...)
	return &Report{Issues: issues}, nil
}

// Pools reports every pool key generation draws from that has no motifs.
func Pools(src motif.Source) *Report {
	keys := append([]motif.Key{motif.Being}, motif.GeneralKeys...)
	keys = append(keys, motif.BeingKeys...)
	issues := make([]Issue, 0)
	for _, k := range keys {
		if len(src.Get(k)) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeEmptyPool,
				Message:  fmt.Sprintf("pool %q is empty; draws from it yield placeholders", k),
				Path:     string(k),
			})
		}
	}
	return &Report{Issues: issues}
}

func checkProjections(s *story.Story) []Issue {
	world := s.OrdinaryWorld()
	projections := []struct {
		path, source string
		got, want    any
	}{
		{"hero", "0.hero", s.Hero, world.Hero},
		{"villain", "0.villain", s.Villain, world.Villain},
		{"companion", "0.companion", s.Companion, world.Companion},
		{"originalWorld", "0.originalWorld", s.OriginalWorld, world.OriginalWorld},
		{"otherWorld", "4.otherWorld", s.OtherWorld, s.Threshold().OtherWorld},
		{"allies", "5.allies", s.Allies, s.Tests().Allies},
		{"talismans", "3.talismans", s.Talismans, s.Mentor().Talismans},
	}
	var issues []Issue
	for _, p := range projections {
		if !sameValue(p.got, p.want) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeProjectionDrift,
				Message:  fmt.Sprintf("%s does not match %s", p.path, p.source),
				Path:     p.path,
			})
		}
	}
	return issues
}

// sameValue treats nil and empty slices alike.
func sameValue(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Slice && vb.Kind() == reflect.Slice && va.Len() == 0 && vb.Len() == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func checkLabels(s *story.Story) []Issue {
	var issues []Issue
	for _, list := range s.ModifierLists() {
		seen := make(map[string]struct{}, len(list.Mods))
		for _, m := range list.Mods {
			if _, ok := seen[m.Label]; ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeDuplicateLabel,
					Message:  fmt.Sprintf("modifier label %q appears more than once", m.Label),
					Path:     list.Path,
				})
			}
			seen[m.Label] = struct{}{}
		}
	}
	return issues
}

func checkPlaceholders(s *story.Story) []Issue {
	var issues []Issue
	for _, f := range s.MotifFields() {
		if f.Value.IsPlaceholder() {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codePlaceholderMotif,
				Message:  fmt.Sprintf("placeholder %s from an empty pool", f.Value.Text),
				Path:     f.Path,
			})
		}
	}
	return issues
}

func checkReferences(s *story.Story) []Issue {
	sources := s.Sources()
	var issues []Issue
	for _, f := range s.DerivedFields() {
		if issue, ok := checkReference(f, sources); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

func checkReference(f story.DerivedField, sources []story.Source) (Issue, bool) {
	d := f.Value
	if d.Ref != nil {
		for _, src := range sources {
			if src.Role != d.Ref.Source {
				continue
			}
			for _, m := range src.Mods {
				if m.Label != d.Ref.Label {
					continue
				}
				want := story.FormatReference(src.Name.Text, m.Label, m.Value.Text)
				if d.Text != want {
					return Issue{
						Severity: SeverityWarn,
						Code:     codeStaleReference,
						Message:  fmt.Sprintf("text %q no longer matches %s", d.Text, want),
						Path:     f.Path,
					}, true
				}
				return Issue{}, false
			}
		}
		return Issue{
			Severity: SeverityError,
			Code:     codeUnresolvedReference,
			Message:  fmt.Sprintf("%s has no modifier %q", d.Ref.Source, d.Ref.Label),
			Path:     f.Path,
		}, true
	}

	name, label, value, ok := story.ParseReference(d.Text)
	if !ok {
		return Issue{}, false
	}
	for _, src := range sources {
		if src.Name.Text != name {
			continue
		}
		for _, m := range src.Mods {
			if m.Label == label {
				if m.Value.Text != value {
					return Issue{
						Severity: SeverityWarn,
						Code:     codeStaleReference,
						Message:  fmt.Sprintf("%s's %q is now %q", name, label, m.Value.Text),
						Path:     f.Path,
					}, true
				}
				return Issue{}, false
			}
		}
	}
	return Issue{
		Severity: SeverityWarn,
		Code:     codeUnresolvedReference,
		Message:  fmt.Sprintf("no %s with modifier %q", name, label),
		Path:     f.Path,
	}, true
}
