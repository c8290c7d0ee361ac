package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinSimilarity is the lowest similarity ratio a suggestion may have, where
// 1.0 is identical and 0.0 shares nothing.
const MinSimilarity = 0.6

// Suggest returns the candidate closest to word, or false if nothing is
// close enough to be worth mentioning.
func Suggest(word string, candidates []string) (string, bool) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" || len(candidates) == 0 {
		return "", false
	}

	// Candidates that contain the word as a subsequence rank first, they
	// catch truncated input like CREAT or RFLSH.
	ranks := fuzzy.RankFindFold(word, candidates)
	sort.Stable(ranks)
	for _, rank := range ranks {
		if strings.EqualFold(rank.Target, word) {
			continue
		}
		distance := fuzzy.LevenshteinDistance(word, strings.ToUpper(rank.Target))
		if similarity(word, rank.Target, distance) >= MinSimilarity {
			return rank.Target, true
		}
	}

	best, bestScore := "", 0.0
	for _, candidate := range candidates {
		if strings.EqualFold(candidate, word) {
			continue
		}
		distance := fuzzy.LevenshteinDistance(word, strings.ToUpper(candidate))
		if score := similarity(word, candidate, distance); score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if bestScore < MinSimilarity {
		return "", false
	}
	return best, true
}

func similarity(a, b string, distance int) float64 {
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(distance)/float64(longest)
}
