package service

import (
	"context"
	"strings"

	"github.com/ploghq/plog/internal/plog/store"
)

type HashTagService struct {
	Store store.Store
}

// NormalizeHashTag canonicalizes a tag name: surrounding whitespace is
// trimmed, everything is lowered, and inner spaces become underscores. An
// empty result means the tag should be dropped.
func NormalizeHashTag(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// NormalizeHashTags canonicalizes a tag list, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeHashTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		normalized := NormalizeHashTag(name)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// ListUsage returns every tag in use with its published post count.
func (s *HashTagService) ListUsage(ctx context.Context) ([]store.HashTagUsage, error) {
	return s.Store.HashTags().ListUsage(ctx)
}
