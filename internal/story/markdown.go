package story

import (
	"fmt"
	"strings"

	"heroforge/internal/motif"
)

// ActCount is the number of acts an outline divides into.
const ActCount = 3

var (
	actBounds = [ActCount][2]Kind{
		{KindOrdinaryWorld, KindThreshold},
		{KindTests, KindReward},
		{KindRoadBack, KindElixir},
	}
	actNames = [ActCount]string{"I", "II", "III"}
)

// ActKinds returns the beats of act, numbered from 1.
func ActKinds(act int) ([]Kind, error) {
	if act < 1 || act > ActCount {
		return nil, fmt.Errorf("%w: %d", ErrActOutOfRange, act)
	}
	bounds := actBounds[act-1]
	var out []Kind
	for k := bounds[0]; k <= bounds[1]; k++ {
		out = append(out, k)
	}
	return out, nil
}

// Markdown renders the whole outline.
func Markdown(s *Story) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", s.Title())
	for act := 1; act <= ActCount; act++ {
		b.WriteString("\n")
		writeAct(&b, s, act)
	}
	return b.String()
}

// ActMarkdown renders one act.
func ActMarkdown(s *Story, act int) (string, error) {
	if _, err := ActKinds(act); err != nil {
		return "", err
	}
	var b strings.Builder
	writeAct(&b, s, act)
	return b.String(), nil
}

func writeAct(b *strings.Builder, s *Story, act int) {
	kinds, _ := ActKinds(act)
	fmt.Fprintf(b, "## Act %s\n", actNames[act-1])
	for _, k := range kinds {
		b.WriteString("\n")
		b.WriteString(BeatMarkdown(s.Beats[k]))
	}
}

// BeatMarkdown renders one beat as a heading and bullets.
func BeatMarkdown(beat Beat) string {
	var w mdWriter
	fmt.Fprintf(&w.b, "### %d. %s\n\n", int(beat.Kind())+1, beat.Title())
	switch b := beat.(type) {
	case OrdinaryWorld:
		w.entity("Hero", &b.Hero)
		w.entity("Companion", &b.Companion)
		w.entity("Villain", &b.Villain)
		w.place("Original world", b.OriginalWorld)
	case CallToAdventure:
		w.value("Inciting incident", b.Inciting)
		w.value("Herald", b.Herald)
		w.values("Has to do with", b.HasToDoWith)
		w.value("The lie", b.Lie)
		w.derived("Because of", b.BecauseOf)
	case Refusal:
		w.value("Place", &b.Place)
		w.entity("Dissuaded by", b.Dissuade)
		w.values("Has to do with", b.HasToDoWith)
		w.derived("Because of", b.BecauseOf)
	case Mentor:
		w.entity("Mentor", &b.Mentor)
		w.value("Place", &b.Place)
		w.value("Supernatural being", b.SupernaturalBeing)
		w.values("Talismans", b.Talismans)
		w.derived("Learns about", &b.LearnsAbout)
		w.value("Trial", b.Trial)
		w.modifier("Hero gains", b.HeroGainsMod)
		w.modifier("Hero loses", b.HeroLosesMod)
	case Threshold:
		w.value("Has to do with", b.HasToDoWith)
		w.value("Conflict with companion", b.CompanionConflict)
		w.place("Other world", b.OtherWorld)
	case Tests:
		w.values("Tests", b.Tests)
		for i := range b.Allies {
			w.entity("Ally", &b.Allies[i])
		}
		for i := range b.Enemies {
			w.entity("Enemy", &b.Enemies[i])
		}
	case Cave:
		w.value("Place", &b.Place)
		w.values("To rescue", b.ToRescue)
		w.value("To get the talisman", b.ToGetTalisman)
		w.value("Cursed by", b.CursedBane)
		w.value("To undergo", b.ToUndergo)
	case Ordeal:
		w.value("Place", &b.Place)
		w.mods("Place traits", b.PlaceMods)
		w.values("Has to do with", b.HasToDoWith)
		for i := range b.HingesOn {
			w.derived("Hinges on", &b.HingesOn[i])
		}
		w.modifier("Hero gains", b.HeroGainsMod)
		w.modifier("Hero loses", b.HeroLosesMod)
	case Reward:
		w.value("Reward", &b.Reward)
		w.value("Hero becomes", &b.HeroBecomes)
		w.value("Has to do with", &b.HasToDoWith)
		w.derived("Loss of", b.LossOf)
	case RoadBack:
		w.value("Place", &b.Place)
		w.mods("Place traits", b.PlaceMods)
		w.value("Accompanied by", &b.AccompaniedBy)
		w.modifier("Original world", b.OriginalWorldMod)
	case Resurrection:
		w.value("Contend with", &b.ContendWith)
		w.value("To achieve", &b.ToAchieve)
		w.modifier("Hero gains", b.HeroGainsMod)
		w.modifier("Hero loses", b.HeroLosesMod)
	case Elixir:
		w.value("Elixir", &b.Elixir)
		w.value("Transformation", &b.Transformation)
		w.value("Resolution", &b.Resolution)
	default:
		panic(fmt.Sprintf("story: unhandled beat %T", beat))
	}
	return w.b.String()
}

type mdWriter struct {
	b strings.Builder
}

func (w *mdWriter) bullet(label, text string) {
	fmt.Fprintf(&w.b, "- **%s:** %s\n", label, text)
}

func (w *mdWriter) value(label string, v *motif.Value) {
	if v != nil {
		w.bullet(label, v.Text)
	}
}

func (w *mdWriter) values(label string, list []motif.Value) {
	if len(list) == 0 {
		return
	}
	texts := make([]string, len(list))
	for i, v := range list {
		texts[i] = v.Text
	}
	w.bullet(label, strings.Join(texts, "; "))
}

func (w *mdWriter) derived(label string, d *Derived) {
	if d != nil {
		w.bullet(label, d.Text)
	}
}

func (w *mdWriter) modifier(label string, m *Modifier) {
	if m != nil {
		w.bullet(label, m.Label+": "+m.Value.Text)
	}
}

func (w *mdWriter) subMods(mods []Modifier) {
	for _, m := range mods {
		fmt.Fprintf(&w.b, "  - %s: %s\n", m.Label, m.Value.Text)
	}
}

func (w *mdWriter) mods(label string, mods []Modifier) {
	if len(mods) == 0 {
		return
	}
	fmt.Fprintf(&w.b, "- **%s:**\n", label)
	w.subMods(mods)
}

func (w *mdWriter) entity(label string, e *Entity) {
	if e == nil {
		return
	}
	w.bullet(label, e.Name.Text)
	w.subMods(e.Mods)
}

func (w *mdWriter) place(label string, p Place) {
	w.bullet(label, fmt.Sprintf("%s (origin: %s)", p.Name.Text, p.Origin.Text))
	w.subMods(p.Mods)
}
