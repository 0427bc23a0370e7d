package ingest

import (
	"context"

	"askdoc/internal/document"
	"askdoc/internal/text"
)

// DocumentChunker extracts plain text from raw document bytes and splits it
// into metadata-stamped chunks.
type DocumentChunker struct {
	extractor *document.Extractor
	size      int
	overlap   int
}

func NewDocumentChunker(extractor *document.Extractor, size, overlap int) *DocumentChunker {
	return &DocumentChunker{
		extractor: extractor,
		size:      size,
		overlap:   overlap,
	}
}

func (c *DocumentChunker) Chunk(ctx context.Context, data []byte, sourceURL, contentType string) ([]Chunk, error) {
	format, err := document.DetectFormat(sourceURL, contentType)
	if err != nil {
		return nil, err
	}

	content, err := c.extractor.Extract(ctx, data, format)
	if err != nil {
		return nil, err
	}

	name := document.BasenameFromURL(sourceURL)
	pieces := text.Split(content, c.size, c.overlap)

	chunks := make([]Chunk, 0, len(pieces))
	for _, piece := range pieces {
		chunks = append(chunks, Chunk{
			Text:           piece,
			SourceDocument: name,
			SourceURL:      sourceURL,
		})
	}
	return chunks, nil
}
