// Package document fetches remote documents and extracts their plain text.
package document

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var (
	ErrFetchFailed       = errors.New("document fetch failed")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractFailed     = errors.New("document extraction failed")
	ErrNoExtractableText = errors.New("document contains no extractable text")
	ErrPDFToolNotFound   = errors.New("pdftotext not found in PATH (install poppler-utils)")
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// DetectFormat decides the document format from the URL, falling back to the
// response Content-Type.
func DetectFormat(sourceURL, contentType string) (Format, error) {
	lower := strings.ToLower(sourceURL)
	switch {
	case strings.Contains(lower, ".pdf"):
		return FormatPDF, nil
	case strings.Contains(lower, ".docx"):
		return FormatDOCX, nil
	}

	switch {
	case strings.Contains(contentType, "application/pdf"):
		return FormatPDF, nil
	case strings.Contains(contentType, "wordprocessingml"):
		return FormatDOCX, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, sourceURL)
}

// BasenameFromURL returns the file name part of a document URL with the query
// string stripped.
func BasenameFromURL(sourceURL string) string {
	trimmed, _, _ := strings.Cut(sourceURL, "?")
	if u, err := url.Parse(trimmed); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(trimmed)
}
