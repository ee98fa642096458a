package document

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

type goqueryNode struct {
	sel *goquery.Selection
}

// ParseGoquery parses HTML with goquery. It is tolerant of broken markup.
func ParseGoquery(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTML 파싱 오류: %w", err)
	}
	return &goqueryNode{sel: doc.Selection}, nil
}

func (n *goqueryNode) Find(selector string) []Node {
	found := n.sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &goqueryNode{sel: s})
	})
	return nodes
}

func (n *goqueryNode) First(selector string) (Node, bool) {
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &goqueryNode{sel: found}, true
}

func (n *goqueryNode) Text() string {
	return collapse(n.sel.Text())
}

func (n *goqueryNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *goqueryNode) NextSibling(selector string) (Node, bool) {
	next := n.sel.NextAllFiltered(selector).First()
	if next.Length() == 0 {
		return nil, false
	}
	return &goqueryNode{sel: next}, true
}
