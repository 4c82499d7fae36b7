package models

// Puzzle is one day of a game. It is implemented by exactly one type per [GameType].
type Puzzle interface {
	PuzzleID() int
	// WithID returns a copy renumbered to id.
	WithID(id int) Puzzle
	Game() GameType
}

// Bank is the ordered puzzle collection for one game. Puzzle ids equal their 1-based position.
type Bank struct {
	Game    GameType
	Puzzles []Puzzle
}

// Len returns the number of puzzles.
func (b Bank) Len() int {
	return len(b.Puzzles)
}

type PricecheckRound struct {
	Category    string `json:"category"`
	Item        string `json:"item"`
	ShownValue  int64  `json:"shownValue"`
	ActualValue int64  `json:"actualValue"`
	Unit        string `json:"unit"`
}

// PricecheckPuzzle asks whether the real value is higher or lower than the shown one.
type PricecheckPuzzle struct {
	ID     int               `json:"id"`
	Rounds []PricecheckRound `json:"rounds"`
}

func (p PricecheckPuzzle) PuzzleID() int { return p.ID }
func (p PricecheckPuzzle) Game() GameType { return GamePricecheck }
func (p PricecheckPuzzle) WithID(id int) Puzzle {
	p.ID = id
	return p
}

// TrendAnswer is the direction the hidden part of a series moves in.
type TrendAnswer string

const (
	TrendUp   TrendAnswer = "up"
	TrendDown TrendAnswer = "down"
	TrendFlat TrendAnswer = "flat"
)

// TrendAnswers lists the answers in the order used for balanced assignment.
func TrendAnswers() []TrendAnswer {
	return []TrendAnswer{TrendUp, TrendDown, TrendFlat}
}

// Valid reports whether a is one of the known directions.
func (a TrendAnswer) Valid() bool {
	return a == TrendUp || a == TrendDown || a == TrendFlat
}

const (
	TrendVisiblePoints = 5
	TrendHiddenPoints  = 3
)

type TrendRound struct {
	Category string      `json:"category"`
	Title    string      `json:"title"`
	Data     []float64   `json:"data"`
	Hidden   []float64   `json:"hidden"`
	Answer   TrendAnswer `json:"answer"`
	Source   string      `json:"source"`
}

// TrendPuzzle shows the start of a series and asks where it goes next.
type TrendPuzzle struct {
	ID     int          `json:"id"`
	Rounds []TrendRound `json:"rounds"`
}

func (p TrendPuzzle) PuzzleID() int { return p.ID }
func (p TrendPuzzle) Game() GameType { return GameTrend }
func (p TrendPuzzle) WithID(id int) Puzzle {
	p.ID = id
	return p
}

type RankItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RankPuzzle has no rounds. Items are stored sorted strictly descending by value.
type RankPuzzle struct {
	ID       int        `json:"id"`
	Category string     `json:"category"`
	Question string     `json:"question"`
	Items    []RankItem `json:"items"`
}

func (p RankPuzzle) PuzzleID() int { return p.ID }
func (p RankPuzzle) Game() GameType { return GameRank }
func (p RankPuzzle) WithID(id int) Puzzle {
	p.ID = id
	return p
}

type Clue struct {
	Domain string `json:"domain"`
	Hint   string `json:"hint"`
}

type CrossfireRound struct {
	Clue1           Clue     `json:"clue1"`
	Clue2           Clue     `json:"clue2"`
	Answer          string   `json:"answer"`
	AcceptedAnswers []string `json:"acceptedAnswers"`
}

// CrossfirePuzzle asks for a word that fits two clues from unrelated domains.
type CrossfirePuzzle struct {
	ID     int              `json:"id"`
	Rounds []CrossfireRound `json:"rounds"`
}

func (p CrossfirePuzzle) PuzzleID() int { return p.ID }
func (p CrossfirePuzzle) Game() GameType { return GameCrossfire }
func (p CrossfirePuzzle) WithID(id int) Puzzle {
	p.ID = id
	return p
}

type VersusOption struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// VersusRound compares two options. HigherWins tells whether the greater value is the correct pick and is
// unaffected by which option is presented first.
type VersusRound struct {
	Category   string       `json:"category"`
	Metric     string       `json:"metric"`
	OptionA    VersusOption `json:"optionA"`
	OptionB    VersusOption `json:"optionB"`
	HigherWins bool         `json:"higherWins"`
}

type VersusPuzzle struct {
	ID     int           `json:"id"`
	Rounds []VersusRound `json:"rounds"`
}

func (p VersusPuzzle) PuzzleID() int { return p.ID }
func (p VersusPuzzle) Game() GameType { return GameVersus }
func (p VersusPuzzle) WithID(id int) Puzzle {
	p.ID = id
	return p
}

// WinDirection is authored on every comparison record.
type WinDirection string

const (
	HigherWins WinDirection = "higher"
	LowerWins  WinDirection = "lower"
)

// Valid reports whether d is one of the known directions.
func (d WinDirection) Valid() bool {
	return d == HigherWins || d == LowerWins
}
