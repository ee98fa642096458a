package crawler

import (
	"strings"

	"sjsage522/usedcarworker/helpers"
	"sjsage522/usedcarworker/internal/document"
	"sjsage522/usedcarworker/internal/models"
	"sjsage522/usedcarworker/internal/normalize"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// ExtractDetail reads a listing's detail page. It fails with a parsing error
// when the title or the info table is missing, which usually means the page
// was served in a different layout or blocked.
func ExtractDetail(doc document.Node, profile SiteProfile, brand, link string) (*models.ListingRecord, error) {
	sel := profile.Detail

	title := document.TextOf(doc, sel.Title)
	if title == "" {
		return nil, crawlerrors.NewParsing(link, "detail title not found", nil)
	}

	table, ok := doc.First(sel.Table)
	if !ok {
		return nil, crawlerrors.NewParsing(link, "detail info table not found", nil)
	}

	info := make(map[string]string)
	for _, th := range table.Find(sel.Label) {
		value := ""
		if td, ok := th.NextSibling(sel.Value); ok {
			value = td.Text()
		}
		info[th.Text()] = value
	}

	fields := make(map[string]string, len(profile.Labels))
	for label, field := range profile.Labels {
		if v, ok := info[label]; ok {
			fields[field] = v
		}
	}

	record := &models.ListingRecord{
		Brand:          brand,
		Model:          helpers.RemoveBrand(title, brand),
		Year:           normalize.NormalizeYear(fields[FieldYear]),
		Mileage:        normalize.NormalizeMileage(fields[FieldMileage]),
		Transmission:   fields[FieldTransmission],
		BodyType:       fields[FieldBodyType],
		DisplacementCC: normalize.ExtractDigits(fields[FieldDisplacement]),
		Link:           link,
	}
	if fuel := strings.TrimSpace(fields[FieldFuel]); fuel != "" {
		record.FuelType = normalize.NormalizeFuel(fuel)
	}
	if price := document.TextOf(doc, sel.Price); price != "" {
		record.Price = normalize.NormalizePrice(price)
	}
	return record, nil
}
