// Package document abstracts parsed HTML behind a small capability
// interface so extractors do not depend on a specific parser.
package document

import (
	"io"
	"strings"
)

// Node is an element in a parsed page
type Node interface {
	// Find returns all descendants matching the CSS selector, in document order
	Find(selector string) []Node

	// First returns the first descendant matching the CSS selector
	First(selector string) (Node, bool)

	// Text returns the whitespace-trimmed text content
	Text() string

	// Attr returns the value of an attribute
	Attr(name string) (string, bool)

	// NextSibling returns the first following sibling element matching the selector
	NextSibling(selector string) (Node, bool)
}

// Document is the root of a parsed page
type Document interface {
	Node
}

// Parser builds a Document from an HTML stream
type Parser func(r io.Reader) (Document, error)

// Parser backend names accepted by ParserByName
const (
	BackendGoquery = "goquery"
	BackendHTML    = "html"
)

// ParserByName returns the parser registered under name
func ParserByName(name string) (Parser, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendGoquery:
		return ParseGoquery, true
	case BackendHTML:
		return ParseHTML, true
	}
	return nil, false
}

// FindAny tries each selector in order and returns the matches of the first
// one that selects at least one element.
func FindAny(n Node, selectors []string) ([]Node, string) {
	for _, selector := range selectors {
		if strings.TrimSpace(selector) == "" {
			continue
		}
		if nodes := n.Find(selector); len(nodes) > 0 {
			return nodes, selector
		}
	}
	return nil, ""
}

// TextOf returns the text of the first match, or "" when nothing matches
func TextOf(n Node, selector string) string {
	if selector == "" {
		return ""
	}
	if found, ok := n.First(selector); ok {
		return found.Text()
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
