package graph

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/castgraph/backend/pkg/common"
	"github.com/castgraph/backend/pkg/logger"

	"github.com/pkoukk/tiktoken-go"
)

// heuristicCharsPerToken is the character-ratio estimate used when no exact
// tokenizer is available: 4 characters per token, a common approximation for
// English prose.
const heuristicCharsPerToken = 4

// TokenCounter estimates how many model tokens a piece of text uses. One
// counter is chosen at Client construction and used for the whole run, so
// chunk budgets are computed consistently.
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

type heuristicCounter struct{}

func (heuristicCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + heuristicCharsPerToken - 1) / heuristicCharsPerToken
}

// NewTokenCounter returns a tiktoken-backed counter for the named encoding,
// or the character-ratio estimate when the encoding is empty or cannot be
// loaded.
func NewTokenCounter(encoder string) TokenCounter {
	if encoder == "" {
		return heuristicCounter{}
	}
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		logger.Warn("[Chunk] Token encoding unavailable, falling back to character estimate", "encoder", encoder, "err", err)
		return heuristicCounter{}
	}
	return &tiktokenCounter{enc: enc}
}

// chunkText splits cleaned text into zero-indexed chunks under the client's
// token budget. Paragraphs are the atomic unit: they accumulate into a chunk
// until the next one would exceed the budget. A paragraph alone over budget
// is split into sentences, and a single oversized sentence is hard-sliced by
// runes as a last resort. The result is deterministic for fixed (text, budget).
func (g *Client) chunkText(text string) []common.Chunk {
	units := g.splitIntoUnits(text)
	if len(units) == 0 {
		return nil
	}

	var chunks []common.Chunk
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, common.Chunk{
			Index: len(chunks),
			Text:  strings.Join(current, "\n\n"),
		})
		current = nil
	}

	for _, unit := range units {
		if len(current) > 0 {
			candidate := strings.Join(append(append([]string{}, current...), unit), "\n\n")
			if g.counter.Count(candidate) > g.maxChunkTokens {
				flush()
			}
		}
		current = append(current, unit)
	}
	flush()

	return chunks
}

// splitIntoUnits turns text into budget-sized atomic units: paragraphs where
// they fit, sentences where a paragraph is too large, rune slices where even
// a sentence exceeds the budget.
func (g *Client) splitIntoUnits(text string) []string {
	var units []string
	for _, paragraph := range splitIntoParagraphs(text) {
		if g.counter.Count(paragraph) <= g.maxChunkTokens {
			units = append(units, paragraph)
			continue
		}

		line := strings.Join(strings.Fields(paragraph), " ")
		for _, sentence := range splitLineIntoSentences(line) {
			if g.counter.Count(sentence) <= g.maxChunkTokens {
				units = append(units, sentence)
				continue
			}
			units = append(units, hardSlice(sentence, g.counter, g.maxChunkTokens)...)
		}
	}
	return units
}

// splitIntoParagraphs splits text on blank lines. Line endings are
// normalized and intra-paragraph newlines preserved.
func splitIntoParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraph := strings.TrimSpace(strings.Join(current, "\n"))
		if paragraph != "" {
			paragraphs = append(paragraphs, paragraph)
		}
		current = nil
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// splitLineIntoSentences splits a single line on sentence-ending
// punctuation, keeping trailing quote or bracket characters with the
// sentence and not breaking after numeric listings like "1.".
func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] == '.' || line[i] == '!' || line[i] == '?' {
			isNumericListing := false

			if i > 0 && unicode.IsDigit(rune(line[i-1])) {
				if i+1 < len(line) && line[i+1] == ' ' {
					isNumericListing = true
				}
			}

			if isNumericListing {
				continue
			}
			j := i + 1
			for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
				current.WriteByte(line[j])
				j++
			}

			for j < len(line) && (line[j] == '"' || line[j] == '\'' || line[j] == ')' ||
				line[j] == ']' || line[j] == '}') {
				current.WriteByte(line[j])
				j++
			}

			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
			i = j - 1
		}
	}

	remaining := strings.TrimSpace(current.String())
	if remaining != "" {
		sentences = append(sentences, remaining)
	}

	return sentences
}

// hardSlice cuts an oversized sentence into rune slices that fit the
// budget. The slice length starts at the character estimate for the budget
// and shrinks until the counter agrees, so the result is deterministic.
func hardSlice(text string, counter TokenCounter, maxTokens int) []string {
	runes := []rune(text)
	var parts []string

	for len(runes) > 0 {
		n := min(len(runes), maxTokens*heuristicCharsPerToken)
		for n > 1 && counter.Count(string(runes[:n])) > maxTokens {
			step := max(n/10, 1)
			n -= step
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}

	return parts
}
