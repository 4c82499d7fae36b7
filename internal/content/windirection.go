package content

import (
	"regexp"

	"github.com/jsech3/GameIQ/internal/models"
)

// lowerWinsPatterns match metric phrasings where the smaller number is the right answer.
var lowerWinsPatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // compiled once
	regexp.MustCompile(`(?i)first\?$`),
	regexp.MustCompile(`(?i)older\?$`),
	regexp.MustCompile(`(?i)\bcloser\b`),
	regexp.MustCompile(`(?i)\bcolder\b`),
	regexp.MustCompile(`(?i)\blower\b`),
	regexp.MustCompile(`(?i)\bfewer\b`),
	regexp.MustCompile(`(?i)\bshorter\b`),
	regexp.MustCompile(`(?i)\bsmaller\b`),
	regexp.MustCompile(`(?i)\blighter\b`),
	regexp.MustCompile(`(?i)\bcheaper\b`),
	regexp.MustCompile(`(?i)spins faster`),
}

// SuggestWinDirection guesses the direction from the wording of metric.
//
// It only serves as an authoring lint. Synthesis always uses the direction stored on the record.
func SuggestWinDirection(metric string) models.WinDirection {
	for _, p := range lowerWinsPatterns {
		if p.MatchString(metric) {
			return models.LowerWins
		}
	}
	return models.HigherWins
}
