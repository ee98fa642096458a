package helpers

import (
	"errors"
	"net/url"
	"strings"
)

// ResolveURL resolves href against base and returns an absolute URL
func ResolveURL(base, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", errors.New("empty href")
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}

// RemoveBrand drops every occurrence of brand from a listing title
func RemoveBrand(title, brand string) string {
	if brand != "" {
		title = strings.ReplaceAll(title, brand, "")
	}
	return strings.Join(strings.Fields(title), " ")
}
