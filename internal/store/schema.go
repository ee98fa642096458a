package store

import (
	"strconv"

	"sjsage522/usedcarworker/internal/models"
)

// Listing table schema. Numeric columns hold plain integers (won, km, cc);
// an empty cell means the value was unavailable.
var (
	ListingColumns = []string{
		"brand", "model", "year", "price_krw", "mileage_km", "fuel_type",
		"transmission", "body_type", "displacement_cc", "region", "link",
	}
	ListingKeys = []string{"link"}

	MakerColumns = []string{"maker_name", "maker_code", "maker_volume", "origin"}
	MakerKeys    = []string{"maker_code", "origin"}
)

// ListingTable converts records into the listing table schema
func ListingTable(records []models.ListingRecord) *Table {
	t := NewTable(ListingColumns...)
	for _, r := range records {
		t.Append(
			r.Brand,
			r.Model,
			formatInt(r.Year),
			formatInt(r.Price),
			formatInt(r.Mileage),
			r.FuelType,
			r.Transmission,
			r.BodyType,
			formatInt(r.DisplacementCC),
			r.Region,
			r.Link,
		)
	}
	return t
}

// MakerTable converts maker categories into the maker table schema
func MakerTable(makers []models.MakerCategory) *Table {
	t := NewTable(MakerColumns...)
	for _, m := range makers {
		t.Append(
			m.MakerName,
			strconv.Itoa(m.MakerCode),
			strconv.Itoa(m.MakerVolume),
			string(m.Origin),
		)
	}
	return t
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
