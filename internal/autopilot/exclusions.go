package autopilot

import "github.com/TobiSchelling/LookTrending/internal/database"

// DefaultExclusionLimit caps the titles passed to the generator.
const DefaultExclusionLimit = 20

// Exclusions returns up to n titles from a newest-first collection, most
// recent first.
func Exclusions(articles []database.Article, n int) []string {
	if n > len(articles) {
		n = len(articles)
	}
	if n <= 0 {
		return nil
	}
	titles := make([]string, n)
	for i := 0; i < n; i++ {
		titles[i] = articles[i].Title
	}
	return titles
}
