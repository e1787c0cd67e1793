package graph

import (
	"context"
	"fmt"

	"github.com/castgraph/backend/pkg/ai"
	"github.com/castgraph/backend/pkg/common"
)

type extractCharacter struct {
	Name     string `json:"name" jsonschema_description:"Name of the character as it appears in the text"`
	Mentions int    `json:"mentions" jsonschema_description:"How many times the character is mentioned in this chunk"`
}

type extractInteraction struct {
	From     string  `json:"from" jsonschema_description:"Name of the first character in the interaction"`
	To       string  `json:"to" jsonschema_description:"Name of the second character in the interaction"`
	Count    int     `json:"count" jsonschema_description:"How many times the two characters interact in this chunk"`
	Strength float64 `json:"strength" jsonschema_description:"Sentiment of the interaction: positive for friendly, negative for hostile, 0 for neutral"`
}

type extractResponse struct {
	Characters   []extractCharacter   `json:"characters" jsonschema_description:"Characters appearing in this chunk"`
	Interactions []extractInteraction `json:"interactions" jsonschema_description:"Direct interactions between two characters in this chunk"`
}

func extractFromChunk(
	ctx context.Context,
	chunk common.Chunk,
	totalChunks int,
	namesOnly bool,
	client ai.BookAIClient,
) (*extractResponse, error) {
	namesRule := ai.ExtractAllCharactersRule
	if namesOnly {
		namesRule = ai.ExtractNamesOnlyRule
	}
	systemPrompt := fmt.Sprintf(ai.ExtractPrompt, chunk.Index+1, totalChunks, namesRule)

	var res extractResponse
	err := client.GenerateCompletionWithFormat(
		ctx,
		"extract_characters_and_interactions",
		"Extract the characters and their interactions from a book excerpt.",
		chunk.Text,
		&res,
		ai.WithSystemPrompts(systemPrompt),
	)
	if err != nil {
		return nil, err
	}

	if err := validateExtract(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// validateExtract rejects responses that parsed as JSON but violate the
// expected shape. Violations are reported as malformed responses so the
// analysis loop skips the chunk instead of merging untyped data.
func validateExtract(res *extractResponse) error {
	for _, character := range res.Characters {
		if character.Name == "" {
			return fmt.Errorf("%w: character with empty name", ai.ErrMalformedResponse)
		}
		if character.Mentions < 0 {
			return fmt.Errorf("%w: character %q with negative mentions", ai.ErrMalformedResponse, character.Name)
		}
	}
	for _, interaction := range res.Interactions {
		if interaction.From == "" || interaction.To == "" {
			return fmt.Errorf("%w: interaction with empty endpoint", ai.ErrMalformedResponse)
		}
		if interaction.Count < 0 {
			return fmt.Errorf("%w: interaction %s/%s with negative count", ai.ErrMalformedResponse, interaction.From, interaction.To)
		}
	}
	return nil
}
