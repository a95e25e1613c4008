// Package pdf exports word lists as PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/at-ishikawa/oxword/internal/assets"
	"github.com/at-ishikawa/oxword/internal/dictionary"
)

// DefaultTitle is the heading of an exported word list.
const DefaultTitle = "Oxford Dictionary 3000"

// Document is the data rendered into the word list template.
type Document struct {
	Title       string
	Description string
	Entries     []dictionary.Entry
}

// ExportOptions controls where and how a word list is exported.
type ExportOptions struct {
	OutputDirectory string
	FileName        string
	TemplatePath    string
}

// ExportEntries writes the document as markdown and converts it to PDF.
// It returns the absolute path of the PDF file.
func ExportEntries(doc Document, opts ExportOptions) (string, error) {
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	fileName := opts.FileName
	if fileName == "" {
		fileName = "oxford-3000"
	}
	fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName))

	tmpl, err := assets.ParseWordListTemplate(opts.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("assets.ParseWordListTemplate() > %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("tmpl.Execute() > %w", err)
	}

	if err := os.MkdirAll(opts.OutputDirectory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", opts.OutputDirectory, err)
	}
	markdownPath := filepath.Join(opts.OutputDirectory, fileName+".md")
	if err := os.WriteFile(markdownPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	return ConvertMarkdownToPDF(markdownPath)
}

// ConvertMarkdownToPDF converts a markdown file to a PDF file next to it.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}

// Describe summarizes the filters that produced an exported list.
func Describe(total int, level dictionary.Level, search string) string {
	parts := []string{fmt.Sprintf("%d words", total)}
	if level != "" && level != dictionary.LevelAll {
		parts = append(parts, "level "+string(level))
	}
	if search != "" {
		parts = append(parts, fmt.Sprintf("matching %q", search))
	}
	return strings.Join(parts, ", ")
}
