package combiner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobshield/jobshield/internal/combiner"
	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/domain"
)

func newCombiner() *combiner.Combiner {
	return combiner.New(config.CombinerConfig{})
}

func TestCombine_ModelOnly(t *testing.T) {
	c := newCombiner()

	result := c.Combine(0.73, nil, nil, domain.IndexVerification{})

	assert.Equal(t, 73, result.FakePct)
	assert.Equal(t, 27, result.RealPct)
	assert.Equal(t, 73, result.ModelFakePct)
	assert.Equal(t, 27, result.ModelRealPct)
	assert.Equal(t, domain.VerdictFake, result.Verdict)
	assert.Empty(t, result.Reasons)
}

func TestCombine_PercentagesSumTo100(t *testing.T) {
	c := newCombiner()

	for _, prob := range []float64{0.0, 0.13, 0.5, 0.505, 0.87, 1.0} {
		result := c.Combine(prob, []string{"wire transfer"}, nil, domain.IndexVerification{Found: true, Matches: 3})
		assert.Equal(t, 100, result.RealPct+result.FakePct, "prob=%f", prob)
		assert.Equal(t, 100, result.ModelRealPct+result.ModelFakePct, "prob=%f", prob)
	}
}

func TestCombine_VerdictThreshold(t *testing.T) {
	c := newCombiner()

	tests := []struct {
		name     string
		fakeProb float64
		want     domain.Verdict
	}{
		{"well below threshold", 0.20, domain.VerdictReal},
		{"exactly at threshold is real", 0.50, domain.VerdictReal},
		{"just above threshold", 0.51, domain.VerdictFake},
		{"well above threshold", 0.90, domain.VerdictFake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Combine(tt.fakeProb, nil, nil, domain.IndexVerification{})
			assert.Equal(t, tt.want, result.Verdict)
		})
	}
}

func TestCombine_IndexFoundLowersScore(t *testing.T) {
	c := newCombiner()

	notFound := c.Combine(0.60, nil, nil, domain.IndexVerification{})
	found := c.Combine(0.60, nil, nil, domain.IndexVerification{Found: true, Matches: 4})

	assert.Less(t, found.FakePct, notFound.FakePct)
	assert.Equal(t, 45, found.FakePct)
	assert.Equal(t, domain.VerdictReal, found.Verdict)
	require.Len(t, found.Reasons, 1)
	assert.Equal(t, "Found on public job index (4 similar listings)", found.Reasons[0])
}

func TestCombine_IndexNotFoundLeavesScoreUnchanged(t *testing.T) {
	c := newCombiner()

	result := c.Combine(0.40, nil, nil, domain.IndexVerification{Found: false})

	assert.Equal(t, 40, result.FakePct)
	assert.Empty(t, result.Reasons)
}

func TestCombine_KeywordPenaltyCapped(t *testing.T) {
	c := newCombiner()

	two := c.Combine(0.30, []string{"a", "b"}, nil, domain.IndexVerification{})
	assert.Equal(t, 40, two.FakePct)

	ten := c.Combine(0.30, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, nil, domain.IndexVerification{})
	assert.Equal(t, 55, ten.FakePct) // capped at +25
}

func TestCombine_KeywordReasonTruncatedToSixPhrases(t *testing.T) {
	c := newCombiner()

	hits := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	result := c.Combine(0.10, hits, nil, domain.IndexVerification{})

	require.Len(t, result.Reasons, 1)
	assert.Equal(t, "Suspicious phrases: one, two, three, four, five, six", result.Reasons[0])
	// The full hit list survives in the verification block.
	assert.Equal(t, hits, result.Verification.KeywordHits)
}

func TestCombine_EmailSignals(t *testing.T) {
	c := newCombiner()

	tests := []struct {
		name       string
		emails     []domain.EmailSignal
		wantFake   int
		wantReason string
	}{
		{
			name: "free domain",
			emails: []domain.EmailSignal{
				{Email: "x@gmail.com", Domain: "gmail.com", Signals: []string{domain.SignalFreeEmailDomain}},
			},
			wantFake:   50,
			wantReason: "Free email domain: gmail.com",
		},
		{
			name: "disposable domain",
			emails: []domain.EmailSignal{
				{Email: "x@tempmail.io", Domain: "tempmail.io", Signals: []string{domain.SignalDisposableDomain}},
			},
			wantFake:   60,
			wantReason: "Disposable-like email domain: tempmail.io",
		},
		{
			name: "company mismatch",
			emails: []domain.EmailSignal{
				{Email: "x@other.com", Domain: "other.com", Signals: []string{domain.SignalCompanyMismatch}},
			},
			wantFake:   55,
			wantReason: "Email domain does not match company: other.com",
		},
		{
			name: "clean addresses nudge toward real",
			emails: []domain.EmailSignal{
				{Email: "hr@acme.com", Domain: "acme.com", Signals: []string{}},
			},
			wantFake:   35,
			wantReason: "Contact email domains look legitimate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Combine(0.40, nil, tt.emails, domain.IndexVerification{})
			assert.Equal(t, tt.wantFake, result.FakePct)
			require.Len(t, result.Reasons, 1)
			assert.Equal(t, tt.wantReason, result.Reasons[0])
		})
	}
}

func TestCombine_NoEmailsNoNudge(t *testing.T) {
	c := newCombiner()

	result := c.Combine(0.40, nil, nil, domain.IndexVerification{})
	assert.Equal(t, 40, result.FakePct)
	assert.Empty(t, result.Reasons)
}

func TestCombine_ReasonOrderIsIndexThenEmailsThenKeywords(t *testing.T) {
	c := newCombiner()

	emails := []domain.EmailSignal{
		{Email: "x@gmail.com", Domain: "gmail.com", Signals: []string{domain.SignalFreeEmailDomain}},
	}
	result := c.Combine(0.80, []string{"wire transfer"}, emails, domain.IndexVerification{Found: true, Matches: 2})

	require.Len(t, result.Reasons, 3)
	assert.Contains(t, result.Reasons[0], "Found on public job index")
	assert.Contains(t, result.Reasons[1], "Free email domain")
	assert.Contains(t, result.Reasons[2], "Suspicious phrases")
}

func TestCombine_ScoreClampedToValidRange(t *testing.T) {
	c := newCombiner()

	emails := []domain.EmailSignal{
		{Email: "a@tempmail.io", Domain: "tempmail.io", Signals: []string{domain.SignalDisposableDomain}},
		{Email: "b@trashmail.io", Domain: "trashmail.io", Signals: []string{domain.SignalDisposableDomain}},
		{Email: "c@gmail.com", Domain: "gmail.com", Signals: []string{domain.SignalFreeEmailDomain}},
	}
	high := c.Combine(0.95, []string{"a", "b", "c", "d", "e"}, emails, domain.IndexVerification{})
	assert.Equal(t, 100, high.FakePct)
	assert.Equal(t, 0, high.RealPct)

	low := c.Combine(0.02, nil, []domain.EmailSignal{
		{Email: "hr@acme.com", Domain: "acme.com", Signals: []string{}},
	}, domain.IndexVerification{Found: true, Matches: 9})
	assert.Equal(t, 0, low.FakePct)
	assert.Equal(t, 100, low.RealPct)
}

func TestCombine_IndexFoundIsMonotone(t *testing.T) {
	c := newCombiner()

	emails := []domain.EmailSignal{
		{Email: "x@gmail.com", Domain: "gmail.com", Signals: []string{domain.SignalFreeEmailDomain}},
	}
	for _, prob := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		without := c.Combine(prob, []string{"crypto"}, emails, domain.IndexVerification{})
		with := c.Combine(prob, []string{"crypto"}, emails, domain.IndexVerification{Found: true, Matches: 1})
		assert.LessOrEqual(t, with.FakePct, without.FakePct, "prob=%f", prob)
	}
}

func TestCombine_VerificationBlockCarriesInputs(t *testing.T) {
	c := newCombiner()

	emails := []domain.EmailSignal{{Email: "x@gmail.com", Domain: "gmail.com", Signals: []string{domain.SignalFreeEmailDomain}}}
	index := domain.IndexVerification{Found: true, Matches: 2, Sample: &domain.IndexMatch{Title: "Clerk", Company: "Acme", Source: "adzuna"}}
	hits := []string{"quick money"}

	result := c.Combine(0.5, hits, emails, index)

	assert.Equal(t, index, result.Verification.API)
	assert.Equal(t, emails, result.Verification.Emails)
	assert.Equal(t, hits, result.Verification.KeywordHits)
}
