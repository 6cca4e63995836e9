package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
)

const (
	thoughtMarker  = "###THOUGHT###"
	responseMarker = "###RESPONSE###"

	// Sentinels returned when the model ignores the output contract.
	sentinelThought = "parse error: reasoning section not found"
	sentinelAnswer  = "parse error: response delimiters missing from model output"
)

var responsePattern = regexp.MustCompile(`###THOUGHT###(.*?)###RESPONSE###(.*)`)

const promptTemplate = `You are a helpful human-resources assistant. Answer the employee's
question using only the reference content between the *** markers below. Follow
these rules strictly:
- Base every statement on the reference content. If the answer is not in the
  reference content, say you do not have that information. Never invent facts.
- If the question is ambiguous or could not possibly be answered from HR
  documentation, ask the employee to clarify instead of guessing.
- For questions starting with "who", "which" or "how many", answer with the
  fact alone, without extra commentary.
- Keep a professional and friendly tone.

Format your entire reply in exactly two sections, in this order:
%s your step-by-step reasoning about what the question asks and which parts of
the reference content answer it.
%s the final answer to show the employee.

Both section headers are mandatory and must appear exactly as written.

***
%s
***

Question: %s`

func buildPrompt(query, context string) string {
	return fmt.Sprintf(promptTemplate, thoughtMarker, responseMarker, context, query)
}

// parseResponse extracts the two sections from raw model output. Quotes and
// newlines are stripped first so the delimiter scan is a flat string match.
// ok is false when either delimiter is missing, in which case the sentinel
// QueryResult is returned.
func parseResponse(raw string) (docModel.QueryResult, bool) {
	cleaned := strings.NewReplacer("\"", "", "\n", " ").Replace(raw)

	match := responsePattern.FindStringSubmatch(cleaned)
	if match == nil {
		return docModel.QueryResult{
			Answer:  sentinelAnswer,
			Thought: sentinelThought,
		}, false
	}

	return docModel.QueryResult{
		Answer:  strings.TrimSpace(match[2]),
		Thought: strings.TrimSpace(match[1]),
	}, true
}
