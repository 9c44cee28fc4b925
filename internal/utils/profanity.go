package utils

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// ProfanityFilter matches a list of banned words.
// ASCII words get word boundaries so "class" does not hit "ass"; other
// scripts are matched as plain substrings.
type ProfanityFilter struct {
	patterns []*regexp.Regexp
}

var (
	defaultFilter     *ProfanityFilter
	defaultFilterOnce sync.Once
)

// DefaultBannedWords is a starter list. Extend with PROFANITY_WORDS.
var DefaultBannedWords = []string{
	"fuck", "fucking", "fucker", "motherfucker", "shit", "bullshit",
	"bastard", "bitch", "sonofabitch", "dick", "cock", "pussy", "cunt",
	"asshole", "dumbass", "jackass", "retard", "slut", "whore",
	"nigger", "faggot", "douche", "douchebag", "wanker", "twat", "prick",
	"arsehole", "bollocks", "cocksucker", "shithead", "dipshit", "dumbfuck",
	"rapist", "rape", "porn", "dildo", "blowjob", "handjob",
}

// CountProfanity counts banned-word hits in s using the default filter.
// Extra words are read once from PROFANITY_WORDS (comma-separated).
func CountProfanity(s string) int {
	if s == "" {
		return 0
	}
	defaultFilterOnce.Do(func() {
		words := make([]string, 0, len(DefaultBannedWords))
		words = append(words, DefaultBannedWords...)
		if extra := strings.TrimSpace(os.Getenv("PROFANITY_WORDS")); extra != "" {
			for _, w := range strings.Split(extra, ",") {
				if w = strings.TrimSpace(w); w != "" {
					words = append(words, w)
				}
			}
		}
		defaultFilter = NewProfanityFilter(words)
	})
	return defaultFilter.Count(s)
}

// NewProfanityFilter builds a filter from a list of banned words.
func NewProfanityFilter(words []string) *ProfanityFilter {
	uniq := make([]string, 0, len(words))
	seen := map[string]struct{}{}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}
	// longest first, so a long word is not split by a shorter one inside it
	sort.Slice(uniq, func(i, j int) bool {
		return len([]rune(uniq[i])) > len([]rune(uniq[j]))
	})
	pats := make([]*regexp.Regexp, 0, len(uniq))
	for _, w := range uniq {
		pattern := regexp.QuoteMeta(w)
		if isASCIIWord(w) {
			pattern = `(?i)\b` + pattern + `\b`
		}
		pats = append(pats, regexp.MustCompile(pattern))
	}
	return &ProfanityFilter{patterns: pats}
}

// Count returns the number of non-overlapping banned-word hits in s.
func (pf *ProfanityFilter) Count(s string) int {
	if pf == nil || len(pf.patterns) == 0 || s == "" {
		return 0
	}
	n := 0
	rest := s
	for _, re := range pf.patterns {
		locs := re.FindAllStringIndex(rest, -1)
		n += len(locs)
		if len(locs) > 0 {
			// blank out hits so shorter words are not counted again inside them
			rest = re.ReplaceAllStringFunc(rest, func(m string) string {
				return strings.Repeat(" ", len(m))
			})
		}
	}
	return n
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
