package jobindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobshield/jobshield/internal/jobindex"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "data entry clerk", "data entry clerk", 100},
		{"case insensitive", "Data Entry Clerk", "data entry clerk", 100},
		{"word order ignored", "clerk entry data", "data entry clerk", 100},
		{"containment scores full", "data entry clerk", "data entry clerk (remote)", 100},
		{"punctuation trimmed", "acme, inc.", "acme inc", 100},
		{"disjoint", "software engineer", "truck driver", 0},
		{"empty side", "", "data entry", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jobindex.TokenSetRatio(tt.a, tt.b))
		})
	}
}

func TestTokenSetRatio_PartialOverlap(t *testing.T) {
	// 2 tokens in common over sets of 3 and 4 words.
	got := jobindex.TokenSetRatio("senior software engineer", "software engineer backend golang")
	assert.InDelta(t, 100*2*2.0/7.0, got, 0.01)
}

func TestTokenSetRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"data entry clerk", "remote data entry"},
		{"acme widgets", "acme widgets international"},
		{"a b c", "c d e"},
	}
	for _, p := range pairs {
		assert.Equal(t, jobindex.TokenSetRatio(p[0], p[1]), jobindex.TokenSetRatio(p[1], p[0]))
	}
}
