package synth

import (
	"cmp"
	"slices"

	"github.com/jsech3/GameIQ/internal/content"
	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
	"github.com/jsech3/GameIQ/internal/random"
)

func (b *builder) rank(templates []content.RankTemplate) ([]models.Puzzle, error) {
	if len(templates) == 0 {
		return nil, errors.New("no rank templates")
	}
	shuffled := random.Shuffle(b.rng, templates)

	puzzles := make([]models.Puzzle, 0, b.size)
	for id := 1; id <= b.size; id++ {
		tmpl := shuffled[id%len(shuffled)]
		puzzles = append(puzzles, models.RankPuzzle{
			ID:       id,
			Category: tmpl.Category,
			Question: tmpl.Question,
			Items:    SortRankItems(tmpl.Items),
		})
	}
	return puzzles, nil
}

// SortRankItems returns a copy of items in descending value order, the canonical stored order.
func SortRankItems(items []models.RankItem) []models.RankItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.RankItem) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return sorted
}
