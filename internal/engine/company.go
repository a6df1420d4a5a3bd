package engine

import (
	"regexp"
	"strings"

	"github.com/jobshield/jobshield/internal/domain"
)

var (
	companyEmailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	capitalizedWord     = regexp.MustCompile(`\b[A-Z][a-zA-Z]{2,}\b`)
)

// effectiveCompany resolves the company name used for the index lookup and
// email mismatch signal. An explicit company wins; otherwise it is inferred
// from the description: the leading label of the first contact email domain,
// falling back to the first capitalized word.
func (e *Engine) effectiveCompany(posting *domain.JobPosting) string {
	if company := strings.TrimSpace(posting.Company); company != "" {
		return company
	}

	if m := companyEmailPattern.FindStringSubmatch(posting.Description); m != nil {
		label := strings.SplitN(strings.ToLower(m[1]), ".", 2)[0]
		if label != "" && !isGenericDomain(label) {
			return label
		}
	}

	return capitalizedWord.FindString(posting.Description)
}

// isGenericDomain filters providers whose leading label names the mail
// service rather than an employer.
func isGenericDomain(label string) bool {
	switch label {
	case "gmail", "yahoo", "hotmail", "outlook", "aol", "mail", "protonmail", "icloud":
		return true
	}
	return false
}
