// Package metadata provides read-only header queries over sample metadata
// files, the tab-separated tables QIIME2 and similar tools consume.
package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// ErrMissingMetadata indicates the metadata file itself is absent. This is
// distinct from a missing column, which is an ordinary false answer.
var ErrMissingMetadata = errors.New("sample metadata file not found")

// File is a parsed metadata header. Only the header row is ever read; the
// sample rows belong to the external tools.
type File struct {
	path    string
	columns []string
}

// Open reads the header row of the metadata file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingMetadata)
		}
		return nil, fmt.Errorf("failed to open metadata file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata header from %s: %w", path, err)
	}

	return &File{path: path, columns: header}, nil
}

// Columns returns the column names in header order.
func (f *File) Columns() []string {
	return f.columns
}

// HasColumn reports whether a column with the given name exists.
func (f *File) HasColumn(name string) bool {
	for _, column := range f.columns {
		if column == name {
			return true
		}
	}
	return false
}

// Source resolves column queries lazily, so a pipeline without conditional
// steps never touches the metadata file at all.
type Source struct {
	path string
	file *File
}

// NewSource creates a lazy column source over the metadata file at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// HasColumn opens the metadata file on first use and reports whether the
// column exists. A missing file is a hard error, not a false answer.
func (s *Source) HasColumn(name string) (bool, error) {
	if s.file == nil {
		file, err := Open(s.path)
		if err != nil {
			return false, err
		}
		s.file = file
	}
	return s.file.HasColumn(name), nil
}
