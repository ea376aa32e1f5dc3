// Package parser extracts bookmark records from Netscape-format
// bookmark files, the HTML convention shared by browser exports. Real
// exports are rarely well-formed, so parsing is lenient: malformed
// markup degrades to fewer records, never to an error.
package parser

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"linkvault/internal/model"
	"linkvault/internal/util"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 2000
)

// Parse scans the whole document for anchors with an http(s) href and
// returns one record per anchor, in document order. Duplicate URLs
// within the file are kept; dedup against stored bookmarks happens at
// import time.
func Parse(data []byte) []model.BookmarkRecord {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		// html.Parse only fails on reader errors, not bad markup.
		return nil
	}

	var records []model.BookmarkRecord

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if rec, ok := recordFromAnchor(n); ok {
				records = append(records, rec)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return records
}

func recordFromAnchor(a *html.Node) (model.BookmarkRecord, bool) {
	href := attr(a, "href")

	// Only http(s) links become bookmarks. This also drops javascript:
	// and data: hrefs, which must never reach storage.
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return model.BookmarkRecord{}, false
	}

	title := strings.TrimSpace(textContent(a))
	if title == "" {
		title = href
	}

	rec := model.BookmarkRecord{
		URL:   href,
		Title: util.Truncate(title, maxTitleLen),
	}

	// Zero and negative epochs are placeholder values, not timestamps.
	if raw := attr(a, "add_date"); raw != "" {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil && ts > 0 {
			rec.AddDate = &ts
		}
	}

	if desc := description(a); desc != "" {
		d := util.Truncate(desc, maxDescriptionLen)
		rec.Description = &d
	}

	if folder := folderName(a); folder != "" {
		f := folder
		rec.Folder = &f
	}

	return rec, true
}

// description looks at the element following the anchor's parent. In
// the Netscape convention each link sits in a <dt> optionally followed
// by a <dd> holding the description.
func description(a *html.Node) string {
	dt := a.Parent
	if dt == nil {
		return ""
	}

	next := dt.NextSibling
	for next != nil {
		if next.Type == html.TextNode {
			next = next.NextSibling
			continue
		}

		if next.Type == html.ElementNode && next.Data == "dd" {
			return strings.TrimSpace(textContent(next))
		}

		break
	}

	return ""
}

// folderName resolves the innermost folder an anchor belongs to: the
// nearest enclosing <dl> announced by a <dt><h3> heading. A <dl>
// without a heading does not end the search; the walk continues
// through the outer lists.
//
// Browser exports never close DT tags, so under an HTML5 tree builder
// a folder's sublist is parsed as a child of the heading's <dt> rather
// than its sibling. Sources with explicit </DT> produce the sibling
// shape instead. Both are recognized.
func folderName(a *html.Node) string {
	for node := a.Parent; node != nil; node = node.Parent {
		if node.Type != html.ElementNode || node.Data != "dl" {
			continue
		}

		if h3 := headingFor(node); h3 != nil {
			return strings.TrimSpace(textContent(h3))
		}
	}

	return ""
}

// headingFor finds the <h3> announcing a <dl>, or nil.
func headingFor(dl *html.Node) *html.Node {
	// Sibling shape: <dt><h3>..</h3></dt><dl>..</dl>
	prev := dl.PrevSibling
	for prev != nil {
		if prev.Type == html.TextNode {
			prev = prev.PrevSibling
			continue
		}

		if prev.Type == html.ElementNode && prev.Data == "dt" {
			if h3 := childElement(prev, "h3"); h3 != nil {
				return h3
			}
		}

		break
	}

	// Nested shape: <dt><h3>..</h3><dl>..</dl></dt>
	if p := dl.Parent; p != nil && p.Type == html.ElementNode && p.Data == "dt" {
		if h3 := childElement(p, "h3"); h3 != nil {
			return h3
		}
	}

	return nil
}

func childElement(n *html.Node, name string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent collects all descendant text of a node.
func textContent(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return b.String()
}
