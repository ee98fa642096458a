package models

// Origin partitions manufacturers on the site
type Origin string

const (
	// OriginDomestic is the site's gubun code for Korean makers
	OriginDomestic Origin = "K"
	// OriginImported is the site's gubun code for imported makers
	OriginImported Origin = "I"
)

// Valid reports whether o is one of the two known origin codes
func (o Origin) Valid() bool {
	return o == OriginDomestic || o == OriginImported
}

// ListingRecord is one used-car listing. Nil numeric fields mean the value
// was missing or unparseable on the page.
type ListingRecord struct {
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Year           *int   `json:"year"`
	Price          *int   `json:"price_krw"`
	Mileage        *int   `json:"mileage_km"`
	FuelType       string `json:"fuel_type"`
	Transmission   string `json:"transmission,omitempty"`
	BodyType       string `json:"body_type,omitempty"`
	DisplacementCC *int   `json:"displacement_cc,omitempty"`
	Region         string `json:"region,omitempty"`
	Link           string `json:"link"`
}

// Enrich overlays the non-empty fields of detail onto r. Brand and Link
// always stay with r.
func (r *ListingRecord) Enrich(detail *ListingRecord) {
	if detail == nil {
		return
	}
	if detail.Model != "" {
		r.Model = detail.Model
	}
	if detail.Year != nil {
		r.Year = detail.Year
	}
	if detail.Price != nil {
		r.Price = detail.Price
	}
	if detail.Mileage != nil {
		r.Mileage = detail.Mileage
	}
	if detail.FuelType != "" {
		r.FuelType = detail.FuelType
	}
	if detail.Transmission != "" {
		r.Transmission = detail.Transmission
	}
	if detail.BodyType != "" {
		r.BodyType = detail.BodyType
	}
	if detail.DisplacementCC != nil {
		r.DisplacementCC = detail.DisplacementCC
	}
	if detail.Region != "" {
		r.Region = detail.Region
	}
}

// MakerCategory is a manufacturer facet of the listing search
type MakerCategory struct {
	MakerName   string `json:"maker_name"`
	MakerCode   int    `json:"maker_code"`
	MakerVolume int    `json:"maker_volume"`
	Origin      Origin `json:"origin"`
}

// BrandConfig describes one brand to crawl
type BrandConfig struct {
	Name      string
	MakerCode int
	Origin    Origin
	// Pages is the page count for bounded crawls; ignored when unbounded
	Pages int
}
