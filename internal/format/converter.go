// Package format converts agent summaries between HTML and the markdown subset shown
// on the cards, and maps agent labels onto display styles.
package format

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html/atom"
)

var leadingTagRE = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9]*)[\s/>]`)

var documentElements = map[atom.Atom]bool{
	atom.Html:       true,
	atom.Body:       true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.P:          true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Table:      true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
}

// Converter handles summary format conversions.
type Converter struct{}

// HTML2MD converts HTML content to Markdown.
func (c Converter) HTML2MD(raw []byte) (string, error) {
	md, err := htmltomarkdown.ConvertString(string(raw))
	if err != nil {
		return "", fmt.Errorf("htmltomarkdown.ConvertString failed: %w", err)
	}

	return md, nil
}

// SummaryMD returns s as markdown. Summaries written as an HTML document are converted;
// anything else, including markdown with stray tags, is returned untouched.
func (c Converter) SummaryMD(s string) string {
	if !LooksLikeHTML(s) {
		return s
	}

	md, err := c.HTML2MD([]byte(s))
	if err != nil {
		log.Println(fmt.Errorf("c.HTML2MD failed: %w", err))
		return s
	}

	return md
}

// LooksLikeHTML reports whether s is an HTML document: it opens with a doctype or a
// block-level element.
func LooksLikeHTML(s string) bool {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype html") {
		return true
	}

	m := leadingTagRE.FindStringSubmatch(trimmed)
	if m == nil {
		return false
	}

	return documentElements[atom.Lookup([]byte(strings.ToLower(m[1])))]
}
