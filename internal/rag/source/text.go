package source

import (
	"errors"
	"os"
	"unicode/utf8"

	"github.com/lu4p/cat"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
)

// loadText reads the whole file as UTF-8 text.
func loadText(path string) ([]docModel.Document, error) {
	return loadWholeFile(path)
}

// loadCSV keeps the raw CSV text in one Document; rows are not parsed, the
// chunker and the index treat the file as plain searchable text.
func loadCSV(path string) ([]docModel.Document, error) {
	return loadWholeFile(path)
}

func loadWholeFile(path string) ([]docModel.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ragErrors.LoadError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &ragErrors.LoadError{Path: path, Err: errors.New("not valid UTF-8")}
	}

	return []docModel.Document{
		{
			Content:  string(data),
			Metadata: map[string]string{docModel.MetaSource: path},
		},
	}, nil
}

// loadDocx handles .docx, .rtf and .odt. The extractor flattens the file
// into one text blob, so page metadata is not available for these kinds.
func loadDocx(path string) ([]docModel.Document, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, &ragErrors.LoadError{Path: path, Err: err}
	}

	return []docModel.Document{
		{
			Content:  text,
			Metadata: map[string]string{docModel.MetaSource: path},
		},
	}, nil
}
