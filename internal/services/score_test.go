package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  int
	}{
		{name: "clamped above range", reply: "Score: 150", want: 100},
		{name: "match score without percent", reply: "Match score 73 — strong fit", want: 73},
		{name: "percentage only", reply: "Overall fit: 82%", want: 82},
		{name: "nothing to parse", reply: "The candidate looks promising.", want: 0},
		{name: "empty", reply: "", want: 0},
		{name: "case insensitive label", reply: "MATCH SCORE: 64/100", want: 64},
		{name: "parenthesised range defeats label", reply: "1. Match score (0-100): 91\n2. Strengths", want: 0},
		{name: "label with colon", reply: "1. Match Score: 88\n2. Strengths: Go", want: 88},
		{name: "no space between words", reply: "matchscore:45", want: 45},
		{name: "percent word", reply: "I would rate this 67 percent.", want: 67},
		{name: "percent word uppercase", reply: "roughly 55 PERCENT aligned", want: 55},
		{name: "label beats earlier percentage", reply: "Covers 30% of tools. Score: 72", want: 72},
		{name: "first label wins", reply: "Score: 40. Revised score: 90", want: 40},
		{name: "percentage clamped", reply: "fit is 250%", want: 100},
		{name: "zero", reply: "Score: 0", want: 0},
		{name: "only three digits taken", reply: "Score: 1234", want: 100},
		{name: "unrelated number before percent", reply: "5 years of experience, 5% travel", want: 5},
		{name: "missing key message", reply: MissingOpenRouterKeyMessage, want: 0},
		{name: "no response message", reply: NoResponseMessage, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseScore(tc.reply))
		})
	}
}

func TestParseScoreIsPureAndBounded(t *testing.T) {
	inputs := []string{
		"Score: 999",
		"100%",
		"Match score: 12",
		"score score score",
		"-20%",
		"Score:\n\n  57",
		"Everything is 0 percent and Score 101",
	}

	for _, in := range inputs {
		first := ParseScore(in)
		assert.Equal(t, first, ParseScore(in), in)
		assert.GreaterOrEqual(t, first, 0, in)
		assert.LessOrEqual(t, first, 100, in)
	}
}
