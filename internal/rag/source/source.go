package source

import (
	"path/filepath"
	"strings"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
)

// Load reads a single file into its uniform Document representation.
// PDF yields one Document per page; every other kind yields exactly one
// Document holding the full file text.
func Load(path string, kind docModel.DocKind) ([]docModel.Document, error) {
	switch kind {
	case docModel.KindPDF:
		return loadPDF(path)
	case docModel.KindText:
		return loadText(path)
	case docModel.KindCSV:
		return loadCSV(path)
	case docModel.KindDocx:
		return loadDocx(path)
	default:
		return nil, &ragErrors.ConfigError{Reason: "unknown document kind: " + string(kind)}
	}
}

// KindForPath maps a file extension to its loader kind. The second return
// is false for extensions the pipeline should skip.
func KindForPath(path string) (docModel.DocKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return docModel.KindPDF, true
	case ".txt":
		return docModel.KindText, true
	case ".csv":
		return docModel.KindCSV, true
	case ".docx", ".rtf", ".odt":
		return docModel.KindDocx, true
	default:
		return "", false
	}
}
