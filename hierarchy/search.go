package hierarchy

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-category-cache/category"
)

// Search matches query against name, slug and description ignoring case and
// diacritics. Records whose name starts with the query come first; both
// groups are sorted by order. A blank query yields an empty result.
func (s *Service) Search(ctx context.Context, query string) []category.Record {
	f := newFolder()
	q := f.fold(strings.TrimSpace(query))
	if q == "" {
		return []category.Record{}
	}

	var prefix, contains []category.Record
	for _, r := range s.records(ctx) {
		name := f.fold(r.Name)
		switch {
		case strings.HasPrefix(name, q):
			prefix = append(prefix, r)
		case strings.Contains(name, q),
			strings.Contains(f.fold(r.Slug), q),
			strings.Contains(f.fold(r.Description), q):
			contains = append(contains, r)
		}
	}

	sortByOrder(prefix)
	sortByOrder(contains)

	out := make([]category.Record, 0, len(prefix)+len(contains))
	out = append(out, prefix...)
	return append(out, contains...)
}

// folder lowercases text and strips combining marks. It is not safe for
// concurrent use.
type folder struct {
	t transform.Transformer
}

func newFolder() *folder {
	return &folder{t: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)}
}

func (f *folder) fold(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(f.t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
