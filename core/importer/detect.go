// ABOUTME: Metadata detection for imported articles
// ABOUTME: Title from the first short line, category by keyword table, difficulty by mean word length

package importer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"paperread-app/core/text"
)

// Difficulty levels stored on articles
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
)

// OtherCategory is used when no keyword matches
const OtherCategory = "其他"

type categoryRule struct {
	name     string
	keywords []string
}

// categories are checked in order; the first rule with a matching keyword wins
var categories = []categoryRule{
	{"技术", []string{"technology", "programming", "software", "computer", "ai", "machine learning"}},
	{"科学", []string{"science", "research", "study", "experiment"}},
	{"商业", []string{"business", "marketing", "management", "economy"}},
	{"健康", []string{"health", "medical", "wellness", "fitness"}},
	{"教育", []string{"education", "learning", "teaching"}},
	{"文学", []string{"literature", "novel", "story", "fiction"}},
	{"新闻", []string{"news", "report", "current", "event"}},
}

var (
	letterRun  = regexp.MustCompile(`[a-zA-Z]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

const maxTitleRunes = 100

// DetectCategory returns the first category whose keyword occurs in the
// title or content. Single keywords match whole words only.
func DetectCategory(content, title string) string {
	body := strings.ToLower(content + " " + title)
	words := text.ExtractWords(body)
	for _, rule := range categories {
		for _, kw := range rule.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(body, kw) {
					return rule.name
				}
				continue
			}
			if words[kw] > 0 {
				return rule.name
			}
		}
	}
	return OtherCategory
}

// DetectDifficulty grades text by its mean word length
func DetectDifficulty(content string) string {
	words := letterRun.FindAllString(content, -1)
	if len(words) == 0 {
		return Intermediate
	}
	total := 0
	for _, w := range words {
		total += len(w)
	}
	mean := float64(total) / float64(len(words))
	switch {
	case mean < 5:
		return Beginner
	case mean < 6.5:
		return Intermediate
	default:
		return Advanced
	}
}

// CountWords counts alphabetic words
func CountWords(content string) int {
	return len(letterRun.FindAllString(content, -1))
}

// ExtractTitle uses the first line as the title when it is short and does
// not read like a sentence. It returns "" otherwise.
func ExtractTitle(content string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	first = strings.TrimSpace(first)
	if first == "" || utf8.RuneCountInString(first) >= maxTitleRunes || strings.HasSuffix(first, ".") {
		return ""
	}
	return first
}

// CleanContent normalizes line endings, collapses runs of blank lines and trims
func CleanContent(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// SplitParagraphs splits cleaned text on blank lines
func SplitParagraphs(content string) []string {
	var out []string
	for _, p := range strings.Split(CleanContent(content), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
