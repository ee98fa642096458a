package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestEnrich(t *testing.T) {
	r := ListingRecord{
		Brand:    "현대",
		Model:    "쏘나타",
		Year:     intp(2019),
		Price:    intp(15_000_000),
		FuelType: "unclassified",
		Region:   "서울",
		Link:     "https://www.bobaedream.co.kr/mycar/mycar_view.php?no=1",
	}

	r.Enrich(&ListingRecord{
		Brand:          "ignored",
		Model:          "쏘나타 DN8",
		Mileage:        intp(42_000),
		FuelType:       "가솔린",
		Transmission:   "오토",
		DisplacementCC: intp(1999),
		Link:           "ignored",
	})

	assert.Equal(t, "현대", r.Brand)
	assert.Equal(t, "쏘나타 DN8", r.Model)
	assert.Equal(t, 2019, *r.Year)
	assert.Equal(t, 15_000_000, *r.Price)
	assert.Equal(t, 42_000, *r.Mileage)
	assert.Equal(t, "가솔린", r.FuelType)
	assert.Equal(t, "오토", r.Transmission)
	assert.Equal(t, 1999, *r.DisplacementCC)
	assert.Equal(t, "서울", r.Region)
	assert.Equal(t, "https://www.bobaedream.co.kr/mycar/mycar_view.php?no=1", r.Link)

	r.Enrich(nil)
	assert.Equal(t, "쏘나타 DN8", r.Model)
}

func TestOriginValid(t *testing.T) {
	assert.True(t, OriginDomestic.Valid())
	assert.True(t, OriginImported.Valid())
	assert.False(t, Origin("X").Valid())
}
