package models

// GameResult is what a finished day reports to the player statistics.
type GameResult struct {
	Score     int  `json:"score"`
	MaxScore  int  `json:"maxScore"`
	Completed bool `json:"completed"`
}

// NewGameResult derives the completion flag from score.
func NewGameResult(score int) GameResult {
	return GameResult{
		Score:     score,
		MaxScore:  MaxScore,
		Completed: score >= CompletionThreshold,
	}
}
