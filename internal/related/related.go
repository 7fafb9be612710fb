// Package related recommends articles that share tags with a target article.
package related

import (
	"sort"
	"strings"

	"github.com/TobiSchelling/LookTrending/internal/database"
)

// DefaultLimit is the number of recommendations shown under an article.
const DefaultLimit = 3

type scored struct {
	article database.Article
	score   int
}

// Score counts the candidate's tags that also appear on the target,
// compared case-insensitively.
func Score(target map[string]struct{}, candidate []string) int {
	n := 0
	for _, t := range candidate {
		if _, ok := target[strings.ToLower(t)]; ok {
			n++
		}
	}
	return n
}

// TagSet returns the lower-cased set of tags.
func TagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

// Rank returns up to limit articles from pool ordered by shared-tag count.
// The target itself (matched by ID) and articles sharing no tags are left
// out. Equal scores keep their pool order.
func Rank(target database.Article, pool []database.Article, limit int) []database.Article {
	if limit <= 0 {
		return nil
	}

	tags := TagSet(target.Tags)
	var candidates []scored
	for _, a := range pool {
		if a.ID == target.ID {
			continue
		}
		if s := Score(tags, a.Tags); s > 0 {
			candidates = append(candidates, scored{article: a, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]database.Article, len(candidates))
	for i, c := range candidates {
		out[i] = c.article
	}
	return out
}
