package text

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/docvault/docvault/internal/models"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// TopWords joins sentences with single spaces, strips punctuation,
// lowercases, tokenizes, drops English stopwords, and returns the n most
// frequent remaining tokens. Ties keep first-occurrence order, and
// inflected forms count as distinct tokens.
func TopWords(sens []string, n int) []models.WordCount {
	if n <= 0 {
		return []models.WordCount{}
	}
	joined := strings.Map(stripPunct, strings.ToLower(strings.Join(sens, " ")))

	type entry struct {
		count int
		first int
	}
	counts := make(map[string]*entry)
	order := 0
	for _, tok := range tokenPattern.FindAllString(joined, -1) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if e, ok := counts[tok]; ok {
			e.count++
		} else {
			counts[tok] = &entry{count: 1, first: order}
		}
		order++
	}

	words := make([]models.WordCount, 0, len(counts))
	for w := range counts {
		words = append(words, models.WordCount{Word: w, Count: counts[w].count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return counts[words[i].Word].first < counts[words[j].Word].first
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func stripPunct(r rune) rune {
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return -1
	}
	return r
}

// stopwords is the standard English stopword list used by frequency
// analysis; tokens are compared after lowercasing and punctuation removal,
// so contractions appear without apostrophes.
var stopwords = func() map[string]struct{} {
	words := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"youre", "youve", "youll", "youd", "your", "yours", "yourself",
		"yourselves", "he", "him", "his", "himself", "she", "shes", "her",
		"hers", "herself", "it", "its", "itself", "they", "them", "their",
		"theirs", "themselves", "what", "which", "who", "whom", "this",
		"that", "thatll", "these", "those", "am", "is", "are", "was", "were",
		"be", "been", "being", "have", "has", "had", "having", "do", "does",
		"did", "doing", "a", "an", "the", "and", "but", "if", "or",
		"because", "as", "until", "while", "of", "at", "by", "for", "with",
		"about", "against", "between", "into", "through", "during",
		"before", "after", "above", "below", "to", "from", "up", "down",
		"in", "out", "on", "off", "over", "under", "again", "further",
		"then", "once", "here", "there", "when", "where", "why", "how",
		"all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "s", "t", "can", "will", "just", "don",
		"dont", "should", "shouldve", "now", "d", "ll", "m", "o", "re",
		"ve", "y", "ain", "aren", "arent", "couldn", "couldnt", "didn",
		"didnt", "doesn", "doesnt", "hadn", "hadnt", "hasn", "hasnt",
		"haven", "havent", "isn", "isnt", "ma", "mightn", "mightnt",
		"mustn", "mustnt", "needn", "neednt", "shan", "shant", "shouldn",
		"shouldnt", "wasn", "wasnt", "weren", "werent", "won", "wont",
		"wouldn", "wouldnt",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
