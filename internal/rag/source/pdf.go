package source

import (
	"errors"
	"strconv"
	"time"

	"github.com/dslipak/pdf"

	"github.com/akolanti/RAGChat/internal/domain/docModel"
	"github.com/akolanti/RAGChat/internal/domain/ragErrors"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

var pdfLogger = logger_i.NewLogger("pdf_loader")

const pageExtractTimeout = 10 * time.Second

// loadPDF produces one Document per page. A page whose text cannot be
// extracted becomes an empty-content Document rather than being dropped,
// so page numbering downstream stays aligned with the file.
func loadPDF(path string) ([]docModel.Document, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, &ragErrors.LoadError{Path: path, Err: err}
	}

	numPages := f.NumPage()
	docs := make([]docModel.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		content := ""
		page := f.Page(i)
		if !page.V.IsNull() {
			extracted, err := protectExtract(page)
			if err != nil {
				pdfLogger.Warn("page extraction failed, keeping empty page", "path", path, "page", i-1, "error", err)
			} else {
				content = extracted
			}
		}

		docs = append(docs, docModel.Document{
			Content: content,
			Metadata: map[string]string{
				docModel.MetaSource: path,
				docModel.MetaPage:   strconv.Itoa(i - 1),
			},
		})
	}
	return docs, nil
}

// protectExtract shields the caller from extraction calls that hang on
// malformed pages.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
