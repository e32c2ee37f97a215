package format

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	orderedItemRE = regexp.MustCompile(`^\d+\.\s`)
	boldRE        = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// RenderMarkdown renders the small markdown subset agents use in full summaries:
// # / ## / ### headings, - and * bullets, numbered items, **bold** and blank lines.
// Consecutive items are grouped into a single list. Text is escaped.
func RenderMarkdown(text string) string {
	if text == "" {
		return ""
	}

	root := element(atom.Div, "markdown")
	var list *html.Node

	for _, line := range strings.Split(text, "\n") {
		var listKind atom.Atom
		var item string

		switch {
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			listKind, item = atom.Ul, line[2:]
		case orderedItemRE.MatchString(line):
			listKind, item = atom.Ol, orderedItemRE.ReplaceAllString(line, "")
		}

		if listKind != 0 {
			if list == nil || list.DataAtom != listKind {
				list = element(listKind, "")
				root.AppendChild(list)
			}
			li := element(atom.Li, "")
			appendInline(li, item)
			list.AppendChild(li)
			continue
		}
		list = nil

		switch {
		case strings.HasPrefix(line, "### "):
			root.AppendChild(withText(element(atom.H4, ""), line[4:]))
		case strings.HasPrefix(line, "## "):
			root.AppendChild(withText(element(atom.H3, ""), line[3:]))
		case strings.HasPrefix(line, "# "):
			root.AppendChild(withText(element(atom.H2, ""), line[2:]))
		case strings.TrimSpace(line) == "":
			root.AppendChild(element(atom.Div, "spacer"))
		default:
			p := element(atom.P, "")
			appendInline(p, line)
			root.AppendChild(p)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return html.EscapeString(text)
	}

	return buf.String()
}

func appendInline(parent *html.Node, text string) {
	last := 0
	for _, m := range boldRE.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			parent.AppendChild(textNode(text[last:m[0]]))
		}
		parent.AppendChild(withText(element(atom.Strong, ""), text[m[2]:m[3]]))
		last = m[1]
	}

	if last < len(text) {
		parent.AppendChild(textNode(text[last:]))
	}
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}

	return n
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(textNode(text))
	return n
}

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}
