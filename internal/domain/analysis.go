package domain

import "time"

// Verdict is the final binary classification of a posting.
type Verdict string

// Verdict values.
const (
	VerdictReal Verdict = "real"
	VerdictFake Verdict = "fake"
)

// Email signal codes emitted by the email domain analyzer.
const (
	SignalFreeEmailDomain  = "free_email_domain"
	SignalDisposableDomain = "disposable_domain"
	SignalCompanyMismatch  = "company_domain_mismatch"
)

// EmailSignal holds the hygiene findings for one distinct email address.
// An empty Signals slice means the address looks okay.
type EmailSignal struct {
	Email   string   `json:"email"`
	Domain  string   `json:"domain"`
	Signals []string `json:"signals"`
}

// IndexMatch is a corroborating listing returned by the public job index.
type IndexMatch struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url,omitempty"`
	Source  string `json:"source,omitempty"`
}

// IndexVerification reports whether similar postings exist in a trusted
// public job index. Lookup failures degrade to the zero value (not found).
type IndexVerification struct {
	Found   bool        `json:"found"`
	Matches int         `json:"matches"`
	Sample  *IndexMatch `json:"sample,omitempty"`
}

// VerificationSignals groups the three independent verification producers.
type VerificationSignals struct {
	API         IndexVerification `json:"api"`
	Emails      []EmailSignal     `json:"emails"`
	KeywordHits []string          `json:"kw_hits"`
}

// AnalysisResult is the output of one analysis. Immutable once built.
//
// Each percentage pair is a pair of integers in [0,100] summing to 100:
// the model pair is the classifier's unadjusted opinion, the final pair is
// the fused score after verification adjustments.
type AnalysisResult struct {
	AnalysisID   string   `json:"analysis_id"`
	RealPct      int      `json:"real_pct"`
	FakePct      int      `json:"fake_pct"`
	Verdict      Verdict  `json:"verdict"`
	Reasons      []string `json:"reasons"`
	ModelRealPct int      `json:"model_real_pct"`
	ModelFakePct int      `json:"model_fake_pct"`

	Verification VerificationSignals `json:"verification"`

	// Company is the effective company name used for verification: the one
	// supplied on the request, or the one inferred from the description.
	Company string `json:"company,omitempty"`

	EngineVersion    string    `json:"engine_version"`
	ModelVersion     string    `json:"model_version,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}
