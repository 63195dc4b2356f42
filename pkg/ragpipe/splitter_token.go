package ragpipe

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the tiktoken encoding used for token-based splitting.
const tokenEncoding = "cl100k_base"

// tokenCodec is the encode/decode surface the token splitter needs from the
// tokenizer library.
type tokenCodec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

func (c tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c tiktokenCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}

// TokenSplitter chunks records by token count: each record's content is
// encoded once, windowed by chunkSize with chunkOverlap tokens shared
// between consecutive windows, and decoded back to text.
type TokenSplitter struct {
	codec        tokenCodec
	chunkSize    int
	chunkOverlap int
}

// NewTokenSplitter creates a token splitter backed by the cl100k_base
// tiktoken encoding. Parameter bounds are the factory's responsibility.
func NewTokenSplitter(chunkSize, chunkOverlap int) (*TokenSplitter, error) {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s encoding: %w", tokenEncoding, err)
	}
	return &TokenSplitter{
		codec:        tiktokenCodec{enc: enc},
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// SplitDocuments chunks every record. Each chunk carries a deep copy of its
// parent's metadata; records with no tokens yield no chunks.
func (s *TokenSplitter) SplitDocuments(docs []Document) ([]Document, error) {
	var chunks []Document
	for _, doc := range docs {
		tokens := s.codec.Encode(doc.Content)
		if len(tokens) == 0 {
			continue
		}

		step := s.chunkSize - s.chunkOverlap
		for start := 0; start < len(tokens); start += step {
			end := start + s.chunkSize
			if end > len(tokens) {
				end = len(tokens)
			}

			chunks = append(chunks, Document{
				Content:  s.codec.Decode(tokens[start:end]),
				Metadata: CloneMetadata(doc.Metadata),
			})

			if end == len(tokens) {
				break
			}
		}
	}
	return chunks, nil
}
