package models

// SearchResult is the outcome of a substring search over one document's
// sentences: the total occurrence count and the matching sentences in
// reading order.
type SearchResult struct {
	Occurrence int      `json:"occurrence"`
	Sentences  []string `json:"sentences"`
}

// CorpusSearchResult aggregates per-document search results across the
// whole store. IDs preserves the metadata store's iteration order and lists
// only documents with at least one occurrence.
type CorpusSearchResult struct {
	IDs     []string                `json:"ids"`
	Results map[string]SearchResult `json:"results"`
}

// WordCount is one entry of a top-words summary.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}
