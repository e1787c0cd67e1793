package common

// Graph is the merged character graph for one analysis of a book. It
// collects every character found across all chunks and the interactions
// between them.
//
// Interactions only ever reference names present in Characters.
type Graph struct {
	BookID       string        `json:"book_id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	NamesOnly    bool          `json:"names_only"`
	Characters   []Character   `json:"characters"`
	Interactions []Interaction `json:"interactions"`
}

// Character is a node in the graph: a name and how often it is mentioned
// across the whole book.
type Character struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
}

// Interaction is an edge between two characters. The pair is unordered;
// From/To carry the names in lexicographic order after merging. Count is
// the summed number of interactions and Strength a signed sentiment score
// averaged over the chunks that reported the pair.
type Interaction struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Count    int     `json:"count"`
	Strength float64 `json:"strength"`
}

// Chunk is a contiguous, zero-indexed segment of a book's cleaned text,
// sized to fit one model request. Chunks are derived deterministically from
// the text and the token budget.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}
