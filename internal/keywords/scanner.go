// Package keywords matches normalized posting text against the curated
// scam-phrase list.
package keywords

import (
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jobshield/jobshield/internal/logging"
	"github.com/jobshield/jobshield/internal/textnorm"
)

// Scanner finds curated scam phrases in normalized text. It is safe for
// concurrent use; UpdatePhrases swaps the phrase list without a restart.
//
// Hits are reported in phrase-list definition order, not text order, and each
// phrase at most once. Downstream truncates the displayed list, so the order
// must be stable across identical inputs.
type Scanner struct {
	mu      sync.RWMutex
	phrases []string
	matcher *ahocorasick.Matcher
	version int
	logger  logging.Logger
}

// NewScanner builds the phrase automaton. Phrases are lowercased and trimmed;
// empty entries are dropped.
func NewScanner(phrases []string, version int, logger logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scanner{logger: logger}
	s.rebuild(phrases, version)

	logger.Info("keyword scanner initialized",
		logging.Int("phrases", len(s.phrases)),
		logging.Int("list_version", version))
	return s
}

func (s *Scanner) rebuild(phrases []string, version int) {
	cleaned := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		cleaned = append(cleaned, p)

		// Scan input is normalized text, so a phrase that does not survive
		// normalization (digits, punctuation) can never match.
		if textnorm.Normalize(p, "") != p {
			s.logger.Warn("scam phrase cannot match normalized text",
				logging.String("phrase", p))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phrases = cleaned
	s.version = version
	if len(cleaned) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(cleaned)
	} else {
		s.matcher = nil
	}
}

// Scan returns the phrases contained in the normalized text, each reported
// once, in phrase-list definition order. Matching is exact substring
// containment; no fuzzy matching.
func (s *Scanner) Scan(normalized string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.matcher == nil || normalized == "" {
		return nil
	}

	found := s.matcher.Match([]byte(normalized))
	if len(found) == 0 {
		return nil
	}

	hitSet := make(map[int]bool, len(found))
	for _, idx := range found {
		hitSet[idx] = true
	}

	// Walk the phrase list so output order is definition order.
	hits := make([]string, 0, len(hitSet))
	for i, phrase := range s.phrases {
		if hitSet[i] {
			hits = append(hits, phrase)
		}
	}
	return hits
}

// UpdatePhrases hot-reloads the phrase list. Safe to call while Scan is in
// flight on other goroutines.
func (s *Scanner) UpdatePhrases(phrases []string, version int) {
	s.rebuild(phrases, version)
	s.logger.Info("keyword scanner updated",
		logging.Int("phrases", s.PhraseCount()),
		logging.Int("list_version", version))
}

// PhraseCount returns the number of loaded phrases.
func (s *Scanner) PhraseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.phrases)
}

// Version returns the loaded phrase-list version.
func (s *Scanner) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
