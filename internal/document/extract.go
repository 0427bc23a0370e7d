package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const pdfTool = "pdftotext"

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output() // #nosec G204 -- name is the fixed pdftotext binary
}

// CheckPDFToolAvailable reports whether the pdftotext binary is on PATH.
func CheckPDFToolAvailable() error {
	if _, err := exec.LookPath(pdfTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// Extractor turns raw PDF or DOCX bytes into plain text.
type Extractor struct {
	runner CommandRunner
}

func NewExtractor() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewExtractorWithRunner injects a custom command runner, for tests.
func NewExtractorWithRunner(r CommandRunner) *Extractor {
	return &Extractor{runner: r}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, format Format) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = e.extractPDF(ctx, data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

// extractPDF writes the bytes to a temp file and shells out to pdftotext,
// reading the extracted text from stdout.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "askdoc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	out, err := e.runner.Run(ctx, pdfTool, "-layout", tmp.Name(), "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrPDFToolNotFound
		}
		return "", fmt.Errorf("%w: pdftotext: %v", ErrExtractFailed, err)
	}
	return string(out), nil
}

func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %v", ErrExtractFailed, err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
		}

		return parseDocumentXML(content)
	}

	return "", fmt.Errorf("%w: word/document.xml missing", ErrExtractFailed)
}

// documentXML mirrors the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				b.WriteString(t.Content)
			}
		}
	}
	return b.String(), nil
}
