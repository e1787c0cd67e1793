package ai

// ExtractPrompt is the system prompt for per-chunk character extraction.
// Placeholders: chunk index (1-based), total chunk count, names rule.
const ExtractPrompt = `
# Task Context
You are a literary analyst processing chunk %d/%d of a public-domain book. Your task is to extract the characters appearing in this chunk and every direct interaction between two of them.

# Detailed Task Description & Rules
- Extract all characters and how many times each is mentioned **in this chunk only** (pronouns referring to an already-identified character count as mentions).
- Detect every direct interaction (dialogue, confrontation, cooperation, physical contact, etc.) between two characters, with how often it occurs in this chunk.
- For each interaction add a "strength" score for its sentiment: positive values for friendly/affectionate exchanges, negative values for hostile/antagonistic ones, 0 for neutral or unclear.
%s

# Output Formatting
Return JSON with this structure:
{
  "characters":   [{"name": string, "mentions": integer}],
  "interactions": [{"from": string, "to": string, "count": integer, "strength": number}]
}
Output must be valid JSON only (no commentary, no extra text).
`

// ExtractNamesOnlyRule is inserted into ExtractPrompt when names-only mode
// is enabled.
const ExtractNamesOnlyRule = `- **names_only mode is ON**: ignore entities that are not proper names (skip descriptors like "the red man", "the nurse", "God").`

// ExtractAllCharactersRule is inserted into ExtractPrompt when names-only
// mode is disabled.
const ExtractAllCharactersRule = `- Include any recurring character or well-defined entity, named or descriptive.`

// QueryPrompt is the system prompt for chunk-grounded question answering.
const QueryPrompt = `
# Task Context
You are answering a reader's question about a book. You are given a few excerpts from the book as grounding context.

# Detailed Task Description & Rules
- Answer using only the information in the provided excerpts.
- If the excerpts do not contain the answer, say so instead of guessing.
- Keep the answer concise and written in plain prose.
`
