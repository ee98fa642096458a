package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// htmlNode walks the x/net/html tree directly and matches with cascadia.
// It avoids goquery's selection bookkeeping and treats an invalid selector
// as matching nothing.
type htmlNode struct {
	node *html.Node
}

// ParseHTML parses HTML into a bare x/net/html tree
func ParseHTML(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("HTML 파싱 오류: %w", err)
	}
	return &htmlNode{node: root}, nil
}

func compile(selector string) (cascadia.Selector, bool) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, false
	}
	return sel, true
}

func (n *htmlNode) Find(selector string) []Node {
	sel, ok := compile(selector)
	if !ok {
		return nil
	}
	var nodes []Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		for _, m := range sel.MatchAll(c) {
			nodes = append(nodes, &htmlNode{node: m})
		}
	}
	return nodes
}

func (n *htmlNode) First(selector string) (Node, bool) {
	sel, ok := compile(selector)
	if !ok {
		return nil, false
	}
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if m := sel.MatchFirst(c); m != nil {
			return &htmlNode{node: m}, true
		}
	}
	return nil, false
}

func (n *htmlNode) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.node)
	return collapse(b.String())
}

func (n *htmlNode) Attr(name string) (string, bool) {
	for _, a := range n.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n *htmlNode) NextSibling(selector string) (Node, bool) {
	sel, ok := compile(selector)
	if !ok {
		return nil, false
	}
	for s := n.node.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && sel.Match(s) {
			return &htmlNode{node: s}, true
		}
	}
	return nil, false
}
