package crawler

import (
	"fmt"
	"strconv"

	"sjsage522/usedcarworker/internal/document"
	"sjsage522/usedcarworker/internal/models"
	"sjsage522/usedcarworker/internal/normalize"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// ExtractMakers reads the maker buttons from a search page. Unlike listing
// cards, one malformed button fails the whole page.
func ExtractMakers(doc document.Node, profile SiteProfile, origin models.Origin) ([]models.MakerCategory, error) {
	sel := profile.Maker
	provider := profile.MakerURL(origin)

	area, ok := doc.First(sel.Area)
	if !ok {
		return nil, crawlerrors.NewParsing(provider, "maker area not found", nil)
	}

	buttons := area.Find(sel.Button)
	if len(buttons) == 0 {
		return nil, crawlerrors.NewParsing(provider, "maker buttons not found", nil)
	}

	makers := make([]models.MakerCategory, 0, len(buttons))
	for i, button := range buttons {
		idx := i + 1

		onclick, _ := button.Attr("onclick")
		match := sel.CodePattern.FindStringSubmatch(onclick)
		if match == nil {
			return nil, crawlerrors.NewParsing(provider, fmt.Sprintf("[%d] maker code not found", idx), nil)
		}
		code, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, crawlerrors.NewParsing(provider, fmt.Sprintf("[%d] invalid maker code", idx), err)
		}

		name := document.TextOf(button, sel.Name)
		if name == "" {
			return nil, crawlerrors.NewParsing(provider, fmt.Sprintf("[%d] maker name not found", idx), nil)
		}

		volume := normalize.ExtractDigits(document.TextOf(button, sel.Volume))
		if volume == nil {
			return nil, crawlerrors.NewParsing(provider, fmt.Sprintf("[%d] maker volume not found", idx), nil)
		}

		makers = append(makers, models.MakerCategory{
			MakerName:   name,
			MakerCode:   code,
			MakerVolume: *volume,
			Origin:      origin,
		})
	}
	return makers, nil
}

// BrandsFromMakers turns a maker table into crawl targets. Makers with no
// listings are left out.
func BrandsFromMakers(makers []models.MakerCategory, pages int) []models.BrandConfig {
	brands := make([]models.BrandConfig, 0, len(makers))
	for _, m := range makers {
		if m.MakerVolume == 0 {
			continue
		}
		brands = append(brands, models.BrandConfig{
			Name:      m.MakerName,
			MakerCode: m.MakerCode,
			Origin:    m.Origin,
			Pages:     pages,
		})
	}
	return brands
}
