package crawler

import (
	"strings"

	"sjsage522/usedcarworker/helpers"
	"sjsage522/usedcarworker/internal/document"
	"sjsage522/usedcarworker/internal/models"
	"sjsage522/usedcarworker/internal/normalize"
)

// ExtractListings pulls the listing cards out of a search result page.
// Cards without a detail anchor or a price are skipped and counted; the rest
// of the page is still returned.
func ExtractListings(doc document.Node, profile SiteProfile, brand string) ([]models.ListingRecord, ListingStats) {
	var stats ListingStats

	items, pattern := document.FindAny(doc, profile.List.Items)
	stats.Elements = len(items)
	stats.Pattern = pattern

	records := make([]models.ListingRecord, 0, len(items))
	for _, item := range items {
		record, ok := extractListing(item, profile, brand, &stats)
		if ok {
			records = append(records, record)
		}
	}
	return records, stats
}

func extractListing(item document.Node, profile SiteProfile, brand string, stats *ListingStats) (models.ListingRecord, bool) {
	sel := profile.List

	anchor, ok := item.First(sel.Anchor)
	if !ok {
		stats.MissingAnchor++
		return models.ListingRecord{}, false
	}
	href, _ := anchor.Attr("href")
	link, err := helpers.ResolveURL(profile.BaseURL, href)
	if err != nil {
		stats.MissingAnchor++
		return models.ListingRecord{}, false
	}

	priceText := document.TextOf(item, sel.Price)
	if priceText == "" {
		stats.MissingPrice++
		return models.ListingRecord{}, false
	}

	title := document.TextOf(item, sel.Title)
	if title == "" {
		title = anchor.Text()
	}

	record := models.ListingRecord{
		Brand:    brand,
		Model:    helpers.RemoveBrand(title, brand),
		Price:    normalize.NormalizePrice(priceText),
		FuelType: normalize.Unclassified,
		Region:   strings.TrimSpace(document.TextOf(item, sel.Region)),
		Link:     link,
	}

	// year, mileage, fuel; later spans may be absent
	aux := item.Find(sel.Aux)
	if len(aux) > 0 {
		record.Year = normalize.NormalizeYear(aux[0].Text())
	}
	if len(aux) > 1 {
		record.Mileage = normalize.NormalizeMileage(aux[1].Text())
	}
	if len(aux) > 2 {
		record.FuelType = normalize.NormalizeFuel(aux[2].Text())
	}

	return record, true
}
