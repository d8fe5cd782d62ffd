package embed

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "their": true, "this": true, "to": true,
	"was": true, "were": true, "will": true, "with": true, "can": true, "should": true,
}

// TFIDF is a local Embedder built from the texts it is given. Vectors are
// L2-normalized so cosine similarity is a dot product.
type TFIDF struct {
	// MaxFeatures caps the vocabulary at the terms found in most documents;
	// 0 keeps every term.
	MaxFeatures int
}

// Name returns "tfidf".
func (t *TFIDF) Name() string {
	return "tfidf"
}

// Embed builds the vocabulary from texts and returns one vector per text.
func (t *TFIDF) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]map[string]int, len(texts))
	df := map[string]int{}
	for i, text := range texts {
		docs[i] = map[string]int{}
		for _, tok := range Tokenize(text) {
			if docs[i][tok] == 0 {
				df[tok]++
			}
			docs[i][tok]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if df[vocab[i]] != df[vocab[j]] {
			return df[vocab[i]] > df[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if t.MaxFeatures > 0 && len(vocab) > t.MaxFeatures {
		vocab = vocab[:t.MaxFeatures]
	}

	n := float64(len(texts))
	out := make([][]float32, len(texts))
	for i, doc := range docs {
		vec := make([]float32, len(vocab))
		var norm float64
		for j, term := range vocab {
			tf := doc[term]
			if tf == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			w := float64(tf) * idf
			vec[j] = float32(w)
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		out[i] = vec
	}
	return out, nil
}

// Tokenize lowercases text and splits it into words of two or more letters,
// dropping stop words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
