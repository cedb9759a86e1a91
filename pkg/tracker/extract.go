package tracker

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// followerPatterns are tried in order against the raw page
var followerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*followers?`),
	regexp.MustCompile(`(?i)followers?:\s*(\d+(?:,\d+)*)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*people?\s*following`),
}

var (
	looseFollowerText = regexp.MustCompile(`(?i)\d+.*followers?`)
	groupedNumber     = regexp.MustCompile(`\d+(?:,\d+)*`)
)

// ExtractFollowers finds a follower count in a tracking page. The ordered
// text patterns run first; if none matches, span, div and td elements whose
// text mentions followers are scanned. ok is false when nothing was found.
func ExtractFollowers(page string) (count int, ok bool) {
	for _, pattern := range followerPatterns {
		m := pattern.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		if n, err := parseGrouped(m[1]); err == nil {
			return n, true
		}
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return 0, false
	}

	text, found := findElementText(doc, func(n *html.Node, text string) bool {
		switch n.DataAtom {
		case atom.Span, atom.Div, atom.Td:
			return looseFollowerText.MatchString(text)
		}
		return false
	})
	if !found {
		return 0, false
	}

	num := groupedNumber.FindString(text)
	if num == "" {
		return 0, false
	}
	n, err := parseGrouped(num)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractTitle returns the trimmed text of the first <h1> element
func ExtractTitle(page string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", false
	}

	var walk func(*html.Node) (string, bool)
	walk = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode && n.DataAtom == atom.H1 {
			return strings.TrimSpace(textContent(n)), true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title, ok := walk(c); ok {
				return title, true
			}
		}
		return "", false
	}
	return walk(doc)
}

// findElementText walks the tree in document order and returns the text of
// the first element that has a single text child accepted by match
func findElementText(n *html.Node, match func(*html.Node, string) bool) (string, bool) {
	if n.Type == html.ElementNode {
		if c := n.FirstChild; c != nil && c.NextSibling == nil && c.Type == html.TextNode {
			if match(n, c.Data) {
				return c.Data, true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text, ok := findElementText(c, match); ok {
			return text, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func parseGrouped(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}
