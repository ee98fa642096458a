package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"

	"sjsage522/usedcarworker/internal/models"
)

// Field names used by the detail label table
const (
	FieldYear         = "year"
	FieldMileage      = "mileage"
	FieldFuel         = "fuel_type"
	FieldTransmission = "transmission"
	FieldBodyType     = "body_type"
	FieldDisplacement = "displacement_cc"
)

// ListSelectors locate listing cards and their fields
type ListSelectors struct {
	// Items are tried in order; the first that matches wins
	Items  []string
	Anchor string
	Title  string
	Price  string
	// Aux spans hold year, mileage and fuel in that order
	Aux    string
	Region string
}

// DetailSelectors locate the detail page title, info table and price
type DetailSelectors struct {
	Title string
	Table string
	Label string
	Value string
	Price string
}

// MakerSelectors locate the maker buttons on the search page
type MakerSelectors struct {
	Area   string
	Button string
	Name   string
	Volume string
	// CodePattern captures the maker code from the button's onclick
	CodePattern *regexp.Regexp
}

// SiteProfile is the immutable description of the crawled site
type SiteProfile struct {
	Name     string
	BaseURL  string
	ListPath string
	Headers  map[string]string

	List   ListSelectors
	Detail DetailSelectors
	Maker  MakerSelectors

	// Labels maps detail table labels to field names
	Labels map[string]string
	// DomesticMakers are maker codes listed under gubun=K
	DomesticMakers []int
	Brands         []models.BrandConfig
}

// DefaultProfile describes bobaedream's used-car search
func DefaultProfile() SiteProfile {
	base := "https://www.bobaedream.co.kr"
	domestic := []int{3, 4, 5, 49, 101}

	brands := []models.BrandConfig{
		{Name: "현대", MakerCode: 3, Pages: 20},
		{Name: "기아", MakerCode: 49, Pages: 20},
		{Name: "제네시스", MakerCode: 101, Pages: 15},
		{Name: "쉐보레", MakerCode: 4, Pages: 15},
		{Name: "르노코리아", MakerCode: 5, Pages: 10},
		{Name: "BMW", MakerCode: 6, Pages: 15},
		{Name: "벤츠", MakerCode: 21, Pages: 15},
		{Name: "아우디", MakerCode: 18, Pages: 10},
	}
	for i := range brands {
		brands[i].Origin = models.OriginImported
		if slices.Contains(domestic, brands[i].MakerCode) {
			brands[i].Origin = models.OriginDomestic
		}
	}

	return SiteProfile{
		Name:     "bobaedream",
		BaseURL:  base,
		ListPath: "/mycar/mycar_list.php",
		Headers: map[string]string{
			"Referer": base + "/",
		},
		List: ListSelectors{
			Items: []string{
				"li[class*='product-item'], li[class*='actual-item']",
				"div.mode-cell.list-data",
			},
			Anchor: "a[href*='view']",
			Title:  ".tit",
			Price:  ".price, em.cr",
			Aux:    ".data-line span",
			Region: "span.region",
		},
		Detail: DetailSelectors{
			Title: "h3.tit",
			Table: "div.tbl-01.st-low",
			Label: "th",
			Value: "td",
			Price: "span.price",
		},
		Maker: MakerSelectors{
			Area:        "div.area-maker",
			Button:      `[onclick^="car_depth_lite"]`,
			Name:        "span.t1",
			Volume:      "span.t2",
			CodePattern: regexp.MustCompile(`car_depth_lite\('(\d+)'`),
		},
		Labels: map[string]string{
			"연식":   FieldYear,
			"주행거리": FieldMileage,
			"연료":   FieldFuel,
			"변속기":  FieldTransmission,
			"차종":   FieldBodyType,
			"배기량":  FieldDisplacement,
		},
		DomesticMakers: domestic,
		Brands:         brands,
	}
}

// ListURL builds the listing page URL for one brand page
func (p SiteProfile) ListURL(origin models.Origin, makerCode, page int) string {
	q := url.Values{}
	q.Set("gubun", string(origin))
	q.Set("maker_no", strconv.Itoa(makerCode))
	q.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s%s?%s", p.BaseURL, p.ListPath, q.Encode())
}

// MakerURL builds the maker list URL for an origin
func (p SiteProfile) MakerURL(origin models.Origin) string {
	return fmt.Sprintf("%s%s?gubun=%s", p.BaseURL, p.ListPath, url.QueryEscape(string(origin)))
}

// OriginFor returns the origin code the site files a maker under
func (p SiteProfile) OriginFor(makerCode int) models.Origin {
	if slices.Contains(p.DomesticMakers, makerCode) {
		return models.OriginDomestic
	}
	return models.OriginImported
}

// WithBaseURL returns a copy of p pointed at another host
func (p SiteProfile) WithBaseURL(base string) SiteProfile {
	p.BaseURL = base
	headers := make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		headers[k] = v
	}
	headers["Referer"] = base + "/"
	p.Headers = headers
	return p
}
