// Package sortname builds the keys books are ordered by when listed by name.
package sortname

import (
	"strings"
	"unicode"
)

// TitleArticles are moved to the end of a title ("The Hobbit" -> "Hobbit, The").
var TitleArticles = []string{
	"The",
	"A",
	"An",
}

// ForTitle generates a sort title from a book name. Book names usually come
// from file names, so underscores and runs of separators become single
// spaces before leading articles are moved to the end.
//   - "The Hobbit" -> "Hobbit, The"
//   - "a_tale_of_two_cities" -> "tale of two cities, a"
//   - "Lord of the Rings" -> "Lord of the Rings"
func ForTitle(title string) string {
	title = normalizeSeparators(title)
	if title == "" {
		return ""
	}

	for _, article := range TitleArticles {
		prefix := article + " "
		if len(title) > len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
			rest := strings.TrimSpace(title[len(prefix):])
			if rest != "" {
				return rest + ", " + title[:len(article)]
			}
		}
	}

	return title
}

// Key is the case-folded sort title used for comparisons.
func Key(title string) string {
	return strings.ToLower(ForTitle(title))
}

// Less orders two book names by sort title, comparing runs of digits by
// numeric value so "Part 2" sorts before "Part 10".
func Less(a, b string) bool {
	ka, kb := []rune(Key(a)), []rune(Key(b))
	i, j := 0, 0
	for i < len(ka) && j < len(kb) {
		if unicode.IsDigit(ka[i]) && unicode.IsDigit(kb[j]) {
			ni, nextI := digitRun(ka, i)
			nj, nextJ := digitRun(kb, j)
			if ni != nj {
				return lessNumeric(ni, nj)
			}
			i, j = nextI, nextJ
			continue
		}
		if ka[i] != kb[j] {
			return ka[i] < kb[j]
		}
		i++
		j++
	}
	return len(ka)-i < len(kb)-j
}

func digitRun(r []rune, start int) (string, int) {
	end := start
	for end < len(r) && unicode.IsDigit(r[end]) {
		end++
	}
	return strings.TrimLeft(string(r[start:end]), "0"), end
}

// lessNumeric compares two digit strings without leading zeros.
func lessNumeric(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func normalizeSeparators(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
