package story

import (
	"fmt"

	"heroforge/internal/logger"
	"heroforge/internal/motif"
)

// RegenerateBeat rerolls one beat. See RegenerateBeatReport.
func RegenerateBeat(p *motif.Picker, s *Story, index int) (*Story, error) {
	out, _, err := RegenerateBeatReport(p, s, index)
	return out, err
}

// RegenerateBeatReport rerolls the beat at index and every beat that
// depends on state it owns, returning the indices it replaced. Index 0
// rebuilds the whole story. A new mentor brings new talismans, so the
// ordeal and reward follow it; new tests bring new allies, so the cave and
// reward follow. The input story is never modified.
func RegenerateBeatReport(p *motif.Picker, s *Story, index int) (*Story, []int, error) {
	k := Kind(index)
	if !k.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", ErrBeatIndex, index)
	}
	if k == KindOrdinaryWorld {
		all := make([]int, BeatCount)
		for i := range all {
			all[i] = i
		}
		logger.Debug("beat regenerated", "beat", index, "cascade", all)
		return Generate(p), all, nil
	}

	out := s.Clone()
	done := []int{index}
	switch k {
	case KindCallToAdventure:
		out.Beats[k] = GenerateCallToAdventure(p, out.Hero, out.Villain, out.OriginalWorld)
	case KindRefusal:
		out.Beats[k] = GenerateRefusal(p, out.Hero, out.Companion, out.Villain)
	case KindMentor:
		mentor := GenerateMentor(p, out.Hero, out.Villain, out.OtherWorld)
		out.Beats[k] = mentor
		out.Beats[KindOrdeal] = GenerateOrdeal(p, out.Hero, out.Villain, mentor.Talismans)
		out.Beats[KindReward] = GenerateReward(p, out.Allies, mentor.Talismans)
		done = append(done, int(KindOrdeal), int(KindReward))
	case KindThreshold:
		out.Beats[k] = GenerateThreshold(p, out.OtherWorld)
	case KindTests:
		tests := GenerateTests(p)
		out.Beats[k] = tests
		out.Beats[KindCave] = GenerateCave(p, tests.Allies)
		out.Beats[KindReward] = GenerateReward(p, tests.Allies, out.Talismans)
		done = append(done, int(KindCave), int(KindReward))
	case KindCave:
		out.Beats[k] = GenerateCave(p, out.Allies)
	case KindOrdeal:
		out.Beats[k] = GenerateOrdeal(p, out.Hero, out.Villain, out.Talismans)
	case KindReward:
		out.Beats[k] = GenerateReward(p, out.Allies, out.Talismans)
	case KindRoadBack:
		out.Beats[k] = GenerateRoadBack(p)
	case KindResurrection:
		out.Beats[k] = GenerateResurrection(p)
	case KindElixir:
		out.Beats[k] = GenerateElixir(p)
	default:
		panic(fmt.Sprintf("story: unhandled beat kind %v", k))
	}
	logger.Debug("beat regenerated", "beat", index, "cascade", done)
	return Sync(s, out), done, nil
}
