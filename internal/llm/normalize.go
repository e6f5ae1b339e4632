package llm

import (
	"path/filepath"
	"strings"
)

// NormalizeList strips leading bullet markers, trims whitespace and drops
// empty entries.
func NormalizeList(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		item = strings.TrimLeft(item, "-*•◦·‣ \t")
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FallbackTitle derives a title when the model omits one: the first line of
// the source text longer than 10 characters, else the filename with its
// extension stripped and separators replaced by spaces, else "Untitled role".
func FallbackTitle(text, fileName string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 10 {
			return line
		}
	}
	name := filepath.Base(fileName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name != "" {
		return name
	}
	return "Untitled role"
}
