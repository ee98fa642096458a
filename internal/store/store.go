package store

import (
	"errors"
	"io/fs"
	"os"

	"sjsage522/usedcarworker/logger"
	crawlerrors "sjsage522/usedcarworker/pkg/errors"
)

// Result describes a completed save
type Result struct {
	Path string
	// Rows is the row count of the rewritten table
	Rows int
	// AddedKeys holds the key values of rows the batch added, in table order.
	// Multi-column keys are joined with an ASCII unit separator.
	AddedKeys []string
}

// Added returns the number of rows the batch added
func (r *Result) Added() int {
	return len(r.AddedKeys)
}

// Store merges batches into CSV tables. It assumes it is the only writer of
// the files it manages.
type Store struct {
	withBOM bool
	log     *logger.Logger
}

// New creates a store. withBOM controls whether written files start with a
// UTF-8 byte order mark for spreadsheet compatibility.
func New(withBOM bool) *Store {
	return &Store{
		withBOM: withBOM,
		log:     logger.ForStore(),
	}
}

// MergeAndSave merges batch into the table at dest, keeping the first row for
// every dedup key value: rows already on disk win over rows in the batch, and
// earlier batch rows win over later ones. The merged table fully replaces the
// file. An empty batch is a no-op and returns a nil result. At least one key
// column is required.
func (s *Store) MergeAndSave(batch *Table, dest string, keys []string) (*Result, error) {
	if batch.Len() == 0 {
		s.log.Warn().Str("path", dest).Msg("batch is empty, skip saving")
		return nil, nil
	}
	if len(keys) == 0 {
		return nil, crawlerrors.NewSchema(dest, nil)
	}

	existing, err := ReadCSV(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
	case err != nil:
		return nil, crawlerrors.NewStorage(dest, "load existing table", err)
	}

	merged := concat(existing, batch)
	if missing := merged.missing(keys); len(missing) > 0 {
		return nil, crawlerrors.NewSchema(dest, missing)
	}

	deduped, added := dedup(merged, keys, existing.Len())
	if err := WriteCSV(dest, deduped, s.withBOM); err != nil {
		return nil, crawlerrors.NewStorage(dest, "write table", err)
	}

	s.log.Info().
		Str("path", dest).
		Int("rows", deduped.Len()).
		Int("added", len(added)).
		Int("batch", batch.Len()).
		Msg("CSV updated")

	return &Result{Path: dest, Rows: deduped.Len(), AddedKeys: added}, nil
}

// LoadKeys returns the values of column in the table at path. A missing file
// yields no keys.
func LoadKeys(path, column string) ([]string, error) {
	t, err := ReadCSV(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, crawlerrors.NewStorage(path, "load keys", err)
	}

	idx := t.Index(column)
	if idx < 0 {
		if t.Len() == 0 && len(t.Columns) == 0 {
			return nil, nil
		}
		return nil, crawlerrors.NewSchema(path, []string{column})
	}

	keys := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		if row[idx] != "" {
			keys = append(keys, row[idx])
		}
	}
	return keys, nil
}

// Exists reports whether a table file is present
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
