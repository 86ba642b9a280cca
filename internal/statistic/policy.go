package statistic

import (
	"fmt"
	"scd/internal/structures"
)

// Verdict is a threshold decision: whether to append a notice to the
// outgoing payload, and the notice text.
type Verdict struct {
	Fire bool
	Text string
}

// ThresholdPolicy decides, from post-increment counters, whether the
// send that just crossed a cadence boundary carries a notice. It holds
// no state: every decision is a pure function of its inputs and the
// configured thresholds.
type ThresholdPolicy struct {
	conf *structures.ThresholdConfig
}

func NewThresholdPolicy(conf *structures.Config) *ThresholdPolicy {
	return &ThresholdPolicy{conf: &conf.Thresholds}
}

// EvaluateGroup fires on a dense cadence (every GroupDenseGlobal global
// sends or every GroupDenseChannel sends of the same channel) once the
// global total has reached the daily quota regime, and on the coarse
// GroupCoarse cadence of the global total below it. When both regimes
// match, a single dense-regime notice is produced.
func (p *ThresholdPolicy) EvaluateGroup(globalTotal, channelTotal int) Verdict {
	c := p.conf
	if globalTotal >= c.GroupDailyQuota && (globalTotal%c.GroupDenseGlobal == 0 || channelTotal%c.GroupDenseChannel == 0) {
		return Verdict{
			Fire: true,
			Text: fmt.Sprintf("\n📈 Sent %d/%d group messages today, %d in this chat — replies may be throttled past the quota",
				globalTotal, c.GroupDailyQuota, channelTotal),
		}
	}
	if globalTotal > 0 && globalTotal%c.GroupCoarse == 0 {
		return Verdict{
			Fire: true,
			Text: fmt.Sprintf("\n📈 Sent %d group messages today, %d in this chat", globalTotal, channelTotal),
		}
	}
	return Verdict{}
}

// EvaluatePrivate fires on every PrivateEvery-th private send of the day.
func (p *ThresholdPolicy) EvaluatePrivate(total int) Verdict {
	if total > 0 && total%p.conf.PrivateEvery == 0 {
		return Verdict{
			Fire: true,
			Text: fmt.Sprintf("\n📈 Sent %d private messages today", total),
		}
	}
	return Verdict{}
}

// EvaluateLoad fires an extreme-load notice above LoadExtreme percent
// and a high-load notice above LoadHigh.
func (p *ThresholdPolicy) EvaluateLoad(pct float64) Verdict {
	switch {
	case pct > p.conf.LoadExtreme:
		return Verdict{
			Fire: true,
			Text: fmt.Sprintf("\n⚠️ Extreme load: %.2f%% — responses may be slow", pct),
		}
	case pct > p.conf.LoadHigh:
		return Verdict{
			Fire: true,
			Text: fmt.Sprintf("\n⚠️ High load: %.2f%%", pct),
		}
	}
	return Verdict{}
}
