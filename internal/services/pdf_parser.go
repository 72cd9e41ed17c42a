package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// TextExtractor turns a PDF payload into plain text. An empty result is the
// only failure signal; details go to the log.
type TextExtractor interface {
	ExtractText(data []byte) string
	ExtractTextFromFile(path string) string
}

type pdfParserService struct {
	log *zap.Logger
}

func NewPDFParserService(log *zap.Logger) TextExtractor {
	return &pdfParserService{log: log}
}

func (p *pdfParserService) ExtractText(data []byte) string {
	text, err := p.extract(data)
	if err != nil {
		p.log.Warn("error reading PDF", zap.Int("size", len(data)), zap.Error(err))
		return ""
	}

	return text
}

func (p *pdfParserService) ExtractTextFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.Warn("error reading PDF file", zap.String("path", path), zap.Error(err))
		return ""
	}

	return p.ExtractText(data)
}

// extract reads every page in order. One failing page fails the whole document.
func (p *pdfParserService) extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			textBuilder.WriteString("\n")
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", pageIndex, err)
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return strings.TrimSpace(textBuilder.String()), nil
}
