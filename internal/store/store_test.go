package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sjsage522/usedcarworker/internal/models"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func listing(link, model string, price int) models.ListingRecord {
	return models.ListingRecord{
		Brand:    "현대",
		Model:    model,
		Year:     intp(2021),
		Price:    intp(price),
		FuelType: "가솔린",
		Link:     link,
	}
}

func TestMergeIntoMissingFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "data", "listings.csv")
	s := New(true)

	batch := ListingTable([]models.ListingRecord{
		listing("https://x/view?no=1", "쏘나타", 10),
		listing("https://x/view?no=2", "아반떼", 20),
		listing("https://x/view?no=1", "쏘나타 중복", 30),
	})

	res, err := s.MergeAndSave(batch, dest, ListingKeys)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, dest, res.Path)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, []string{"https://x/view?no=1", "https://x/view?no=2"}, res.AddedKeys)

	saved, err := ReadCSV(dest)
	require.NoError(t, err)
	assert.Equal(t, ListingColumns, saved.Columns)
	assert.Equal(t, batch.Rows[:2], saved.Rows)
}

func TestMergeKeepsExistingRow(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listings.csv")
	s := New(false)

	_, err := s.MergeAndSave(ListingTable([]models.ListingRecord{
		listing("https://x/view?no=1", "쏘나타", 10),
	}), dest, ListingKeys)
	require.NoError(t, err)

	res, err := s.MergeAndSave(ListingTable([]models.ListingRecord{
		listing("https://x/view?no=1", "쏘나타 새 데이터", 99),
		listing("https://x/view?no=3", "그랜저", 30),
	}), dest, ListingKeys)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.Added())
	assert.Equal(t, []string{"https://x/view?no=3"}, res.AddedKeys)

	saved, err := ReadCSV(dest)
	require.NoError(t, err)
	require.Equal(t, 2, saved.Len())

	matches := 0
	for i := range saved.Rows {
		if saved.Value(i, "link") == "https://x/view?no=1" {
			matches++
			assert.Equal(t, "쏘나타", saved.Value(i, "model"))
			assert.Equal(t, "10", saved.Value(i, "price_krw"))
		}
	}
	assert.Equal(t, 1, matches)
	assert.Equal(t, "https://x/view?no=3", saved.Value(1, "link"))
}

func TestMergeEmptyBatchIsNoop(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listings.csv")
	original := "brand,link\n현대,https://x/view?no=1\n"
	require.NoError(t, os.WriteFile(dest, []byte(original), 0644))

	s := New(true)
	res, err := s.MergeAndSave(NewTable(ListingColumns...), dest, ListingKeys)
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = s.MergeAndSave(nil, dest, ListingKeys)
	assert.NoError(t, err)
	assert.Nil(t, res)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	missing := filepath.Join(t.TempDir(), "never.csv")
	res, err = s.MergeAndSave(NewTable("link"), missing, ListingKeys)
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, Exists(missing))
}

func TestMergeMissingKeyColumn(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "makers.csv")
	batch := NewTable("maker_name", "maker_code")
	batch.Append("현대", "3")

	res, err := New(true).MergeAndSave(batch, dest, MakerKeys)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeSchema))
	assert.Contains(t, err.Error(), "origin")
	assert.False(t, Exists(dest))
}

func TestMergeWithoutKeys(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listings.csv")
	s := New(true)

	_, err := s.MergeAndSave(ListingTable([]models.ListingRecord{
		listing("https://x/view?no=1", "쏘나타", 10),
		listing("https://x/view?no=2", "아반떼", 20),
	}), dest, ListingKeys)
	require.NoError(t, err)
	before, err := os.ReadFile(dest)
	require.NoError(t, err)

	batch := ListingTable([]models.ListingRecord{
		listing("https://x/view?no=3", "그랜저", 30),
		listing("https://x/view?no=4", "팰리세이드", 40),
		listing("https://x/view?no=5", "투싼", 50),
	})
	for _, keys := range [][]string{nil, {}} {
		res, err := s.MergeAndSave(batch, dest, keys)
		assert.Nil(t, res)
		require.Error(t, err)
		assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeSchema))
	}

	after, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	fresh := filepath.Join(t.TempDir(), "fresh.csv")
	_, err = s.MergeAndSave(batch, fresh, nil)
	require.Error(t, err)
	assert.False(t, Exists(fresh))
}

func TestWrittenTableIsWorldReadable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listings.csv")
	_, err := New(true).MergeAndSave(ListingTable([]models.ListingRecord{
		listing("https://x/view?no=1", "쏘나타", 10),
	}), dest, ListingKeys)
	require.NoError(t, err)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestMergeCompositeKeyAndColumnOrder(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "makers.csv")
	existing := "origin,maker_code,maker_name,maker_volume\nK,3,현대,100\n"
	require.NoError(t, os.WriteFile(dest, []byte("\ufeff"+existing), 0644))

	batch := MakerTable([]models.MakerCategory{
		{MakerName: "현대자동차", MakerCode: 3, MakerVolume: 150, Origin: models.OriginDomestic},
		{MakerName: "BMW", MakerCode: 3, MakerVolume: 80, Origin: models.OriginImported},
	})

	res, err := New(true).MergeAndSave(batch, dest, MakerKeys)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, []string{"3\x1fI"}, res.AddedKeys)

	saved, err := ReadCSV(dest)
	require.NoError(t, err)
	assert.Equal(t, []string{"origin", "maker_code", "maker_name", "maker_volume"}, saved.Columns)
	assert.Equal(t, "현대", saved.Value(0, "maker_name"))
	assert.Equal(t, "100", saved.Value(0, "maker_volume"))
	assert.Equal(t, "BMW", saved.Value(1, "maker_name"))
	assert.Equal(t, "I", saved.Value(1, "origin"))
}

func TestMergeAddsNewColumns(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(dest, []byte("brand,link\n기아,https://x/view?no=9\n"), 0644))

	res, err := New(false).MergeAndSave(ListingTable([]models.ListingRecord{
		listing("https://x/view?no=5", "K5", 25),
	}), dest, ListingKeys)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)

	saved, err := ReadCSV(dest)
	require.NoError(t, err)
	assert.Equal(t, "brand", saved.Columns[0])
	assert.Equal(t, "link", saved.Columns[1])
	assert.Len(t, saved.Columns, len(ListingColumns))
	assert.Equal(t, "", saved.Value(0, "model"))
	assert.Equal(t, "K5", saved.Value(1, "model"))
}

func TestWriteCSVByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	table := NewTable("brand", "link")
	table.Append("제네시스", "https://x/view?no=1")

	withBOM := filepath.Join(dir, "bom.csv")
	require.NoError(t, WriteCSV(withBOM, table, true))
	data, err := os.ReadFile(withBOM)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeffbrand,link\n"))

	plain := filepath.Join(dir, "plain.csv")
	require.NoError(t, WriteCSV(plain, table, false))
	data, err = os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "brand,link\n제네시스,https://x/view?no=1\n", string(data))

	for _, path := range []string{withBOM, plain} {
		read, err := ReadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, table.Columns, read.Columns)
		assert.Equal(t, table.Rows, read.Rows)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files should not be left behind")
}

func TestListingTableNulls(t *testing.T) {
	table := ListingTable([]models.ListingRecord{{
		Brand:    "기아",
		Model:    "모닝",
		FuelType: "unclassified",
		Link:     "https://x/view?no=7",
	}})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "", table.Value(0, "year"))
	assert.Equal(t, "", table.Value(0, "price_krw"))
	assert.Equal(t, "", table.Value(0, "mileage_km"))
	assert.Equal(t, "unclassified", table.Value(0, "fuel_type"))
	assert.Equal(t, "", table.Value(0, "missing_column"))
}

func TestLoadKeys(t *testing.T) {
	dir := t.TempDir()

	keys, err := LoadKeys(filepath.Join(dir, "none.csv"), "link")
	assert.NoError(t, err)
	assert.Empty(t, keys)

	path := filepath.Join(dir, "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffbrand,link\n현대,a\n기아,\n쉐보레,b\n"), 0644))

	keys, err = LoadKeys(path, "link")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	_, err = LoadKeys(path, "maker_code")
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeSchema))
}
