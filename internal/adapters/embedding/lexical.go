package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/okian/pragati/internal/domain/textproc"
)

const defaultLexicalDims = 512

// LexicalEmbedder hashes lemmatized tokens into a fixed-size term-frequency
// vector. It runs offline and is used when no embedding service is configured.
type LexicalEmbedder struct {
	tok  *textproc.Tokenizer
	dims int
}

// NewLexicalEmbedder creates a LexicalEmbedder over tok. A nil tok uses the
// default English tokenizer.
func NewLexicalEmbedder(tok *textproc.Tokenizer, dims int) *LexicalEmbedder {
	if tok == nil {
		tok = textproc.New()
	}
	if dims <= 0 {
		dims = defaultLexicalDims
	}
	return &LexicalEmbedder{tok: tok, dims: dims}
}

// Embed returns the unit-length hashed vector for text.
func (e *LexicalEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := e.tok.Tokenize(text)
	if len(tokens) == 0 {
		return nil, ErrEmptyText
	}
	vec := make([]float64, e.dims)
	for _, t := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(t))
		vec[int(h.Sum32()%uint32(e.dims))]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}
