package keywords_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobshield/jobshield/internal/keywords"
	"github.com/jobshield/jobshield/internal/logging"
)

// recordingLogger captures warning messages for assertions.
type recordingLogger struct {
	logging.NopLogger
	warns []string
}

func (l *recordingLogger) Warn(msg string, _ ...logging.Field) {
	l.warns = append(l.warns, msg)
}

func TestScanner_Scan(t *testing.T) {
	phrases := []string{"no interview", "quick money", "wire transfer", "gift card"}
	scanner := keywords.NewScanner(phrases, 1, nil)

	tests := []struct {
		name       string
		normalized string
		want       []string
	}{
		{
			name:       "single hit",
			normalized: "start today quick money guaranteed",
			want:       []string{"quick money"},
		},
		{
			name:       "hits come back in list order not text order",
			normalized: "we pay by wire transfer and hire with no interview",
			want:       []string{"no interview", "wire transfer"},
		},
		{
			name:       "repeated phrase reported once",
			normalized: "quick money quick money quick money",
			want:       []string{"quick money"},
		},
		{
			name:       "no hits",
			normalized: "senior software engineer with benefits",
			want:       nil,
		},
		{
			name:       "empty text",
			normalized: "",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanner.Scan(tt.normalized))
		})
	}
}

func TestScanner_DropsEmptyAndDuplicatePhrases(t *testing.T) {
	scanner := keywords.NewScanner([]string{" Wire Transfer ", "", "wire transfer", "crypto"}, 1, nil)

	assert.Equal(t, 2, scanner.PhraseCount())
	assert.Equal(t, []string{"wire transfer"}, scanner.Scan("pay via wire transfer"))
}

func TestScanner_UpdatePhrases(t *testing.T) {
	scanner := keywords.NewScanner([]string{"quick money"}, 1, nil)
	assert.Equal(t, []string{"quick money"}, scanner.Scan("quick money now"))

	scanner.UpdatePhrases([]string{"training fee"}, 2)

	assert.Equal(t, 2, scanner.Version())
	assert.Nil(t, scanner.Scan("quick money now"))
	assert.Equal(t, []string{"training fee"}, scanner.Scan("pay a training fee first"))
}

func TestScanner_WarnsOnUnmatchablePhrase(t *testing.T) {
	// Scan input has digits and punctuation stripped, so a phrase carrying
	// them is a silent no-op unless the operator is told.
	log := &recordingLogger{}
	scanner := keywords.NewScanner([]string{"20 minutes onboarding", "gift card"}, 1, log)

	assert.Equal(t, 2, scanner.PhraseCount())
	assert.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "cannot match normalized text")

	log.warns = nil
	scanner.UpdatePhrases([]string{"fee: $500"}, 2)
	assert.Len(t, log.warns, 1)
}

func TestScanner_EmptyPhraseList(t *testing.T) {
	scanner := keywords.NewScanner(nil, 1, nil)
	assert.Nil(t, scanner.Scan("anything at all"))
}
