package graph

import (
	"sort"

	"github.com/castgraph/backend/pkg/common"
)

type pairKey struct {
	a, b string
}

// orderedPair returns the two names in lexicographic order so the same
// unordered pair always maps to one key.
func orderedPair(from, to string) pairKey {
	if from <= to {
		return pairKey{a: from, b: to}
	}
	return pairKey{a: to, b: from}
}

type interactionTotals struct {
	count       int
	strengthSum float64
	reports     int
}

// graphAccumulator merges per-chunk extraction results. Character mentions
// are summed by exact name; interactions are keyed by the unordered name
// pair with counts summed and strength averaged over the chunks reporting
// the pair. Both operations are commutative, so chunk completion order does
// not affect the final graph.
type graphAccumulator struct {
	mentions     map[string]int
	interactions map[pairKey]*interactionTotals
}

func newGraphAccumulator() *graphAccumulator {
	return &graphAccumulator{
		mentions:     make(map[string]int),
		interactions: make(map[pairKey]*interactionTotals),
	}
}

func (acc *graphAccumulator) add(res *extractResponse) {
	for _, character := range res.Characters {
		acc.mentions[character.Name] += character.Mentions
	}

	for _, interaction := range res.Interactions {
		key := orderedPair(interaction.From, interaction.To)
		totals := acc.interactions[key]
		if totals == nil {
			totals = &interactionTotals{}
			acc.interactions[key] = totals
		}
		totals.count += interaction.Count
		totals.strengthSum += interaction.Strength
		totals.reports++
	}
}

// finalize builds the merged graph. Interaction endpoints the model never
// listed as characters are added with zero mentions, so interactions only
// ever reference names present in the character set. Output ordering is
// deterministic: characters by mentions descending then name, interactions
// by name pair.
func (acc *graphAccumulator) finalize(bookID, title, author string, namesOnly bool) *common.Graph {
	for key := range acc.interactions {
		if _, ok := acc.mentions[key.a]; !ok {
			acc.mentions[key.a] = 0
		}
		if _, ok := acc.mentions[key.b]; !ok {
			acc.mentions[key.b] = 0
		}
	}

	characters := make([]common.Character, 0, len(acc.mentions))
	for name, mentions := range acc.mentions {
		characters = append(characters, common.Character{Name: name, Mentions: mentions})
	}
	sort.Slice(characters, func(i, j int) bool {
		if characters[i].Mentions != characters[j].Mentions {
			return characters[i].Mentions > characters[j].Mentions
		}
		return characters[i].Name < characters[j].Name
	})

	interactions := make([]common.Interaction, 0, len(acc.interactions))
	for key, totals := range acc.interactions {
		strength := 0.0
		if totals.reports > 0 {
			strength = totals.strengthSum / float64(totals.reports)
		}
		interactions = append(interactions, common.Interaction{
			From:     key.a,
			To:       key.b,
			Count:    totals.count,
			Strength: strength,
		})
	}
	sort.Slice(interactions, func(i, j int) bool {
		if interactions[i].From != interactions[j].From {
			return interactions[i].From < interactions[j].From
		}
		return interactions[i].To < interactions[j].To
	})

	return &common.Graph{
		BookID:       bookID,
		Title:        title,
		Author:       author,
		NamesOnly:    namesOnly,
		Characters:   characters,
		Interactions: interactions,
	}
}
