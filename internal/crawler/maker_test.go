package crawler

import (
	"strings"
	"testing"

	"sjsage522/usedcarworker/internal/models"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMakers(t *testing.T) {
	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			doc, err := parse(strings.NewReader(makerPage))
			require.NoError(t, err)

			makers, err := ExtractMakers(doc, DefaultProfile(), models.OriginDomestic)
			require.NoError(t, err)
			assert.Equal(t, []models.MakerCategory{
				{MakerName: "현대", MakerCode: 3, MakerVolume: 45_210, Origin: models.OriginDomestic},
				{MakerName: "기아", MakerCode: 49, MakerVolume: 38_120, Origin: models.OriginDomestic},
				{MakerName: "기타", MakerCode: 999, MakerVolume: 0, Origin: models.OriginDomestic},
			}, makers)
		})
	}
}

func TestExtractMakersMalformed(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		message string
	}{
		{"no area", `<div class="area-model"></div>`, "maker area not found"},
		{"no buttons", `<div class="area-maker"><ul><li>현대</li></ul></div>`, "maker buttons not found"},
		{"no code", `<div class="area-maker"><button onclick="car_depth_lite(this)"><span class="t1">현대</span><span class="t2">1</span></button></div>`, "[1] maker code not found"},
		{"no name", `<div class="area-maker"><button onclick="car_depth_lite('3')"><span class="t2">1</span></button></div>`, "[1] maker name not found"},
		{"no volume", `<div class="area-maker"><button onclick="car_depth_lite('3')"><span class="t1">현대</span></button></div>`, "[1] maker volume not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parsers["goquery"](strings.NewReader(tt.html))
			require.NoError(t, err)

			makers, err := ExtractMakers(doc, DefaultProfile(), models.OriginImported)
			assert.Nil(t, makers)
			require.Error(t, err)
			assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeParsing))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestBrandsFromMakers(t *testing.T) {
	brands := BrandsFromMakers([]models.MakerCategory{
		{MakerName: "현대", MakerCode: 3, MakerVolume: 10, Origin: models.OriginDomestic},
		{MakerName: "기타", MakerCode: 999, MakerVolume: 0, Origin: models.OriginDomestic},
		{MakerName: "BMW", MakerCode: 6, MakerVolume: 5, Origin: models.OriginImported},
	}, 7)

	assert.Equal(t, []models.BrandConfig{
		{Name: "현대", MakerCode: 3, Origin: models.OriginDomestic, Pages: 7},
		{Name: "BMW", MakerCode: 6, Origin: models.OriginImported, Pages: 7},
	}, brands)
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	require.Len(t, p.Brands, 8)
	assert.Equal(t, models.BrandConfig{Name: "현대", MakerCode: 3, Origin: models.OriginDomestic, Pages: 20}, p.Brands[0])
	assert.Equal(t, models.BrandConfig{Name: "BMW", MakerCode: 6, Origin: models.OriginImported, Pages: 15}, p.Brands[5])
	assert.Equal(t, models.OriginDomestic, p.OriginFor(101))
	assert.Equal(t, models.OriginImported, p.OriginFor(21))

	assert.Equal(t, testBase+"/mycar/mycar_list.php?gubun=K&maker_no=3&page=2", p.ListURL(models.OriginDomestic, 3, 2))
	assert.Equal(t, testBase+"/mycar/mycar_list.php?gubun=I", p.MakerURL(models.OriginImported))

	local := p.WithBaseURL("http://127.0.0.1:8080")
	assert.Equal(t, "http://127.0.0.1:8080/", local.Headers["Referer"])
	assert.Equal(t, testBase+"/", p.Headers["Referer"])
}
