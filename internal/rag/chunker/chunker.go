package chunker

import (
	"strings"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/google/uuid"
)

// Split fragments documents into bounded, overlapping chunks. method picks
// the unit: "token" counts whitespace-delimited tokens, "recursive" counts
// characters and prefers natural boundaries. Chunk order within a document
// is preserved.
func Split(documents []docModel.Document, method docModel.ChunkMethod, chunkSize int, chunkOverlap int) ([]docModel.Chunk, error) {
	if chunkSize <= 0 {
		return nil, &ragErrors.ConfigError{Reason: "chunk size must be positive"}
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, &ragErrors.ConfigError{Reason: "chunk overlap must be smaller than chunk size"}
	}

	var splitOne func(text string) []string
	switch method {
	case docModel.MethodToken:
		splitOne = func(text string) []string { return splitByTokens(text, chunkSize, chunkOverlap) }
	case docModel.MethodRecursive:
		splitOne = func(text string) []string { return splitRecursive(text, chunkSize, chunkOverlap, separators) }
	default:
		return nil, &ragErrors.ConfigError{Reason: "unknown chunk method: " + string(method)}
	}

	var chunks []docModel.Chunk
	for _, doc := range documents {
		for _, text := range splitOne(doc.Content) {
			chunks = append(chunks, docModel.Chunk{
				Id:       uuid.New().String(),
				Content:  text,
				Metadata: copyMetadata(doc.Metadata),
				Source:   doc.Metadata[docModel.MetaSource],
			})
		}
	}
	return chunks, nil
}

// splitByTokens produces chunks of exactly chunkSize tokens (except possibly
// the last per document), each sharing its first chunkOverlap tokens with
// the tail of the previous chunk.
func splitByTokens(text string, chunkSize int, chunkOverlap int) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) <= chunkSize {
		return []string{strings.Join(tokens, " ")}
	}

	stride := chunkSize - chunkOverlap
	var out []string
	for start := 0; start < len(tokens); start += stride {
		end := start + chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, strings.Join(tokens[start:end], " "))
		if end == len(tokens) {
			break
		}
	}
	return out
}

// Separators ordered from "best" to "worst" for semantic meaning. The empty
// string means hard character cuts.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// splitRecursive keeps every chunk at most chunkSize characters, splitting
// at the most meaningful boundary that the text still contains and falling
// through to the next separator for oversized fragments.
func splitRecursive(text string, chunkSize int, chunkOverlap int, seps []string) []string {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	splitChar := ""
	rest := seps
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			splitChar = s
			rest = seps[i+1:]
			break
		}
	}

	if splitChar == "" {
		return hardCut(text, chunkSize, chunkOverlap)
	}

	parts := strings.Split(text, splitChar)
	var chunks []string
	var currentChunk strings.Builder

	flush := func() {
		if currentChunk.Len() > 0 {
			chunks = append(chunks, currentChunk.String())

			// start the next chunk with the tail of this one
			overlapContent := ""
			if currentChunk.Len() > chunkOverlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-chunkOverlap:]
			}
			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}
	}

	for _, part := range parts {
		if len(part) > chunkSize {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
				currentChunk.Reset()
			}
			chunks = append(chunks, splitRecursive(part, chunkSize, chunkOverlap, rest)...)
			continue
		}

		if currentChunk.Len()+len(part)+len(splitChar) > chunkSize {
			flush()
			// the overlap tail alone can already be too full for this part
			if currentChunk.Len()+len(part)+len(splitChar) > chunkSize {
				currentChunk.Reset()
			}
		}
		if currentChunk.Len() > 0 {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}
	return chunks
}

func hardCut(text string, chunkSize int, chunkOverlap int) []string {
	stride := chunkSize - chunkOverlap
	var out []string
	for start := 0; start < len(text); start += stride {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		out = append(out, text[start:end])
		if end == len(text) {
			break
		}
	}
	return out
}

func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
