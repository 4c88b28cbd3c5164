package autoeq

import (
	"regexp"
	"strings"

	"github.com/fiiotools/autoeq-fiio/internal/model"
)

// markdownLinkRegex matches one markdown link: [name](path).
var markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// ParseIndex extracts headphone entries from the AutoEq results index.
//
// The index is a Markdown bullet list where each item links a headphone
// name to the relative directory its EQ files live under:
//
//	- [Sennheiser HD 650](./oratory1990/harman_over-ear_2018/Sennheiser%20HD%20650/)
//
// Only lines starting with "*" or "-" are considered. Paths are normalized
// to a bare relative directory with exactly one trailing slash; entries
// with an empty path are dropped. A name listed more than once keeps its
// first position but takes the last path, so the returned order follows
// the index.
func ParseIndex(content string) []model.Entry {
	var entries []model.Entry
	seen := make(map[string]int)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "*") && !strings.HasPrefix(trimmed, "-") {
			continue
		}

		m := markdownLinkRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[1])
		path := strings.TrimSpace(m[2])
		path = strings.TrimLeft(path, "./")
		path = strings.TrimRight(path, "/")
		if name == "" || path == "" {
			continue
		}
		path += "/"

		if idx, ok := seen[name]; ok {
			entries[idx].Path = path
			continue
		}
		seen[name] = len(entries)
		entries = append(entries, model.Entry{Name: name, Path: path})
	}

	return entries
}

// SearchEntries filters entries by case-insensitive substring match on the
// name. An empty term matches everything.
func SearchEntries(entries []model.Entry, term string) []model.Entry {
	if term == "" {
		return entries
	}

	term = strings.ToLower(term)
	var matches []model.Entry
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), term) {
			matches = append(matches, entry)
		}
	}
	return matches
}
