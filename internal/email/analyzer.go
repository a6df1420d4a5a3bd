// Package email extracts contact addresses from raw posting text and
// classifies their domains for hygiene signals.
package email

import (
	"regexp"
	"strings"
	"sync"

	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/logging"
)

// addressPattern is the standard loose email pattern. Extraction runs on raw
// text; the normalizer would have stripped the punctuation needed here.
var addressPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

var slugPattern = regexp.MustCompile(`[^a-z0-9]`)

// Analyzer classifies email domains against the curated free-webmail and
// disposable-pattern lists. Safe for concurrent use; UpdateLists swaps the
// lists without a restart.
type Analyzer struct {
	mu          sync.RWMutex
	freeDomains map[string]bool
	disposable  []string
	version     int
	logger      logging.Logger
}

// NewAnalyzer builds an analyzer from the curated domain lists.
func NewAnalyzer(freeDomains, disposablePatterns []string, version int, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &Analyzer{logger: logger}
	a.UpdateLists(freeDomains, disposablePatterns, version)
	return a
}

// UpdateLists hot-reloads the domain lists.
func (a *Analyzer) UpdateLists(freeDomains, disposablePatterns []string, version int) {
	free := make(map[string]bool, len(freeDomains))
	for _, d := range freeDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			free[d] = true
		}
	}
	disposable := make([]string, 0, len(disposablePatterns))
	for _, p := range disposablePatterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			disposable = append(disposable, p)
		}
	}

	a.mu.Lock()
	a.freeDomains = free
	a.disposable = disposable
	a.version = version
	a.mu.Unlock()

	a.logger.Info("email domain lists loaded",
		logging.Int("free_domains", len(free)),
		logging.Int("disposable_patterns", len(disposable)),
		logging.Int("list_version", version))
}

// Version returns the loaded domain-list version.
func (a *Analyzer) Version() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// Analyze extracts every distinct address from the raw description and
// returns one EmailSignal per address, in first-occurrence order. The
// case-insensitive form keys de-duplication; the first spelling seen is kept
// for display. An empty Signals slice means the address looks okay.
func (a *Analyzer) Analyze(rawDescription, company string) []domain.EmailSignal {
	matches := addressPattern.FindAllString(rawDescription, -1)
	if len(matches) == 0 {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	companySlug := slugify(company)

	seen := make(map[string]bool, len(matches))
	signals := make([]domain.EmailSignal, 0, len(matches))
	for _, addr := range matches {
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true
		signals = append(signals, a.classify(addr, companySlug))
	}
	return signals
}

// classify inspects one address. Caller holds the read lock.
func (a *Analyzer) classify(addr, companySlug string) domain.EmailSignal {
	at := strings.LastIndex(addr, "@")
	emailDomain := strings.ToLower(addr[at+1:])

	found := make([]string, 0, 3)

	flagged := false
	if a.freeDomains[emailDomain] {
		found = append(found, domain.SignalFreeEmailDomain)
		flagged = true
	}
	for _, pattern := range a.disposable {
		if strings.Contains(emailDomain, pattern) {
			found = append(found, domain.SignalDisposableDomain)
			flagged = true
			break
		}
	}

	// Mismatch only fires for addresses not already explained by a free or
	// disposable domain, and only when a company name is known.
	if companySlug != "" && !flagged {
		domainSlug := slugify(firstLabel(emailDomain))
		if domainSlug != "" && !related(companySlug, domainSlug) {
			found = append(found, domain.SignalCompanyMismatch)
		}
	}

	return domain.EmailSignal{
		Email:   addr,
		Domain:  emailDomain,
		Signals: found,
	}
}

// related reports whether either slug contains the other.
func related(companySlug, domainSlug string) bool {
	return strings.Contains(companySlug, domainSlug) || strings.Contains(domainSlug, companySlug)
}

// slugify lowercases and strips everything but letters and digits.
func slugify(s string) string {
	return slugPattern.ReplaceAllString(strings.ToLower(s), "")
}

// firstLabel returns the leading label of a domain ("acme" for "acme.co.uk").
func firstLabel(domainName string) string {
	if i := strings.Index(domainName, "."); i > 0 {
		return domainName[:i]
	}
	return domainName
}
