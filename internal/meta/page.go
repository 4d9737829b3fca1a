// Package meta renders the static metadata page served for shared take links.
//
// The page carries OpenGraph and Twitter card tags so that social previews show
// the verdict, the roast and the chart without running any client code.
package meta

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ppiankov/legm/internal/model"
	"github.com/ppiankov/legm/internal/present"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SiteName is used for og:site_name and the document title suffix
const SiteName = "LeGM"

// Page holds everything needed to render the metadata document
type Page struct {
	Detail    model.TakeDetail
	Permalink string
	ChartURL  string // absolute, "" when the take has no chart
}

// Title is the preview headline, e.g. `"Jokic is the best center" - VALID (82%)`
func (p Page) Title() (string, error) {
	badge, err := present.Present(p.Detail.Verdict, p.Detail.Confidence)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\"%s\" - %s (%d%%)", p.Detail.TakeText, badge.Label, badge.Percent), nil
}

// Tags returns the ordered meta tags of the page as (attribute key, name, content)
func (p Page) Tags() ([]Tag, error) {
	title, err := p.Title()
	if err != nil {
		return nil, err
	}

	card := "summary"
	if p.ChartURL != "" {
		card = "summary_large_image"
	}

	tags := []Tag{
		{Attr: "property", Name: "og:type", Content: "article"},
		{Attr: "property", Name: "og:site_name", Content: SiteName},
		{Attr: "property", Name: "og:title", Content: title},
		{Attr: "property", Name: "og:description", Content: p.Detail.Roast},
		{Attr: "property", Name: "og:url", Content: p.Permalink},
	}
	if p.ChartURL != "" {
		tags = append(tags, Tag{Attr: "property", Name: "og:image", Content: p.ChartURL})
	}
	tags = append(tags,
		Tag{Attr: "name", Name: "twitter:card", Content: card},
		Tag{Attr: "name", Name: "twitter:title", Content: title},
		Tag{Attr: "name", Name: "twitter:description", Content: p.Detail.Roast},
	)
	if p.ChartURL != "" {
		tags = append(tags, Tag{Attr: "name", Name: "twitter:image", Content: p.ChartURL})
	}
	return tags, nil
}

// Tag is a single <meta> element
type Tag struct {
	Attr    string // "property" for OpenGraph, "name" for Twitter
	Name    string
	Content string
}

// Render builds and serializes the HTML document.
// All text goes through the html tree so take text cannot inject markup.
func Render(p Page) ([]byte, error) {
	title, err := p.Title()
	if err != nil {
		return nil, fmt.Errorf("render meta page for take %d: %w", p.Detail.ID, err)
	}
	tags, err := p.Tags()
	if err != nil {
		return nil, fmt.Errorf("render meta page for take %d: %w", p.Detail.ID, err)
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	titleNode := element(atom.Title)
	titleNode.AppendChild(text(title + " | " + SiteName))
	head.AppendChild(titleNode)
	for _, t := range tags {
		head.AppendChild(element(atom.Meta,
			html.Attribute{Key: t.Attr, Val: t.Name},
			html.Attribute{Key: "content", Val: t.Content}))
	}
	head.AppendChild(element(atom.Link,
		html.Attribute{Key: "rel", Val: "canonical"},
		html.Attribute{Key: "href", Val: p.Permalink}))

	body := element(atom.Body)
	body.AppendChild(textElement(atom.H1, p.Detail.TakeText))
	body.AppendChild(textElement(atom.P, title))
	body.AppendChild(textElement(atom.P, p.Detail.Roast))
	if p.Detail.Reasoning != "" {
		body.AppendChild(textElement(atom.P, p.Detail.Reasoning))
	}
	if len(p.Detail.StatsUsed) > 0 {
		list := element(atom.Ul)
		for _, s := range p.Detail.StatsUsed {
			list.AppendChild(textElement(atom.Li, s))
		}
		body.AppendChild(list)
	}
	if p.ChartURL != "" {
		body.AppendChild(element(atom.Img,
			html.Attribute{Key: "src", Val: p.ChartURL},
			html.Attribute{Key: "alt", Val: "chart for take " + fmt.Sprint(p.Detail.ID)}))
	}

	root := element(atom.Html, html.Attribute{Key: "lang", Val: "en"})
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("serialize meta page: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: strings.TrimSpace(s)}
}

func textElement(a atom.Atom, s string) *html.Node {
	n := element(a)
	n.AppendChild(text(s))
	return n
}
