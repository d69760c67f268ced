package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencePattern matches a markdown code fence, optionally tagged with a language.
var fencePattern = regexp.MustCompile("(?s)```[A-Za-z]*[ \\t]*\\r?\\n?(.*?)```")

// ExtractJSON locates the JSON payload inside a model reply: the span from the
// first '{' to the last '}'. A fenced block's span is preferred when it parses
// on its own; otherwise the span is taken from the whole reply, which is never
// rewritten. It returns ErrNoJSONFound when no such span exists.
func ExtractJSON(text string) (string, error) {
	if strings.Contains(text, "```") {
		for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
			if span, ok := braceSpan(m[1]); ok && json.Valid([]byte(span)) {
				return span, nil
			}
		}
	}

	span, ok := braceSpan(text)
	if !ok {
		return "", ErrNoJSONFound
	}
	return span, nil
}

// braceSpan returns text from its first '{' through its last '}'.
func braceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
