// Package combiner fuses the model probability with the verification signals
// into the final calibrated score, verdict, and explanation list. It is pure
// and deterministic given its four inputs.
package combiner

import (
	"fmt"
	"math"
	"strings"

	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/model"
)

// maxDisplayedHits bounds the phrases quoted in the keyword reason.
const maxDisplayedHits = 6

// Combiner applies the fusion policy. The weight magnitudes are tunable
// configuration; the invariants that hold regardless of tuning are
// monotonicity (corroboration never raises the fake score, negative signals
// never lower it) and clamping to [0,100].
type Combiner struct {
	cfg config.CombinerConfig
}

// New creates a combiner, filling unset weights with defaults.
func New(cfg config.CombinerConfig) *Combiner {
	cfg.SetDefaults()
	return &Combiner{cfg: cfg}
}

// Combine fuses the model score with the three verification signals.
//
// The returned result carries both percentage pairs, the verdict, and the
// reasons in fixed order: index verification, email findings, keyword
// findings. Adjustments that did not fire contribute nothing; the list is
// never padded.
func (c *Combiner) Combine(
	fakeProb float64,
	kwHits []string,
	emails []domain.EmailSignal,
	index domain.IndexVerification,
) domain.AnalysisResult {
	modelReal, modelFake := model.Percentages(fakeProb)

	fake := float64(modelFake)
	reasons := make([]string, 0, 4)

	// Independent corroboration lowers the score. Absence of corroboration
	// is not itself evidence of fraud and leaves the score unchanged.
	if index.Found {
		fake -= c.cfg.IndexFoundBonus
		reasons = append(reasons, fmt.Sprintf(
			"Found on public job index (%d similar listings)", index.Matches))
	}

	fake, reasons = c.applyEmailSignals(fake, reasons, emails)

	if len(kwHits) > 0 {
		penalty := math.Min(c.cfg.KeywordCap, c.cfg.KeywordStep*float64(len(kwHits)))
		fake += penalty
		shown := kwHits
		if len(shown) > maxDisplayedHits {
			shown = shown[:maxDisplayedHits]
		}
		reasons = append(reasons, "Suspicious phrases: "+strings.Join(shown, ", "))
	}

	fakePct := clampPct(int(math.Round(fake)))
	realPct := 100 - fakePct

	verdict := domain.VerdictReal
	if fakePct > c.cfg.VerdictThreshold {
		verdict = domain.VerdictFake
	}

	return domain.AnalysisResult{
		RealPct:      realPct,
		FakePct:      fakePct,
		Verdict:      verdict,
		Reasons:      reasons,
		ModelRealPct: modelReal,
		ModelFakePct: modelFake,
		Verification: domain.VerificationSignals{
			API:         index,
			Emails:      emails,
			KeywordHits: kwHits,
		},
	}
}

// applyEmailSignals adds one nudge per email finding. A non-empty email set
// with no findings at all nudges slightly toward real: a posting exposing a
// clean corporate contact address is weak evidence of legitimacy.
func (c *Combiner) applyEmailSignals(fake float64, reasons []string, emails []domain.EmailSignal) (float64, []string) {
	if len(emails) == 0 {
		return fake, reasons
	}

	flagged := false
	for _, e := range emails {
		for _, sig := range e.Signals {
			flagged = true
			switch sig {
			case domain.SignalFreeEmailDomain:
				fake += c.cfg.FreeDomainStep
				reasons = append(reasons, "Free email domain: "+e.Domain)
			case domain.SignalDisposableDomain:
				fake += c.cfg.DisposableStep
				reasons = append(reasons, "Disposable-like email domain: "+e.Domain)
			case domain.SignalCompanyMismatch:
				fake += c.cfg.MismatchStep
				reasons = append(reasons, "Email domain does not match company: "+e.Domain)
			}
		}
	}

	if !flagged {
		fake -= c.cfg.CleanEmailBonus
		reasons = append(reasons, "Contact email domains look legitimate")
	}
	return fake, reasons
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
