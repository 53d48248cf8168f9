package parser

import (
	"context"
	"log/slog"

	"github.com/menucarta/carta/internal/menu"
	"github.com/menucarta/carta/internal/providers"
)

// Request contains the parameters for parsing one document's text.
type Request struct {
	Text           string // Already-extracted document text
	RestaurantName string // Restaurant identifier (defaults to "Unknown")
	SourceFile     string // Source file name, carried into the result
	Method         string // Extraction method tag ("text", "pdf", "ocr")
}

// Parser sequences normalization, chunking, structured extraction and
// validation into one MenuData result per document.
type Parser struct {
	extractor     providers.StructuredExtractor
	maxChunkChars int
	logger        *slog.Logger
}

// New creates a Parser. maxChunkChars <= 0 selects the default chunk size.
func New(extractor providers.StructuredExtractor, maxChunkChars int, logger *slog.Logger) *Parser {
	if maxChunkChars <= 0 {
		maxChunkChars = DefaultMaxChunkChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		extractor:     extractor,
		maxChunkChars: maxChunkChars,
		logger:        logger,
	}
}

// ParseMenu runs the full pipeline over one document. Chunks are processed
// strictly sequentially; a chunk that exhausts its retries contributes zero
// items and processing continues. The only error returned is context
// cancellation — an unparseable document degrades to an empty MenuData with
// confidence 0.
func (p *Parser) ParseMenu(ctx context.Context, req Request) (*menu.MenuData, error) {
	clean := Normalize(req.Text)
	chunks := Chunk(clean, p.maxChunkChars)
	p.logger.Info("starting menu parse",
		"restaurant", req.RestaurantName,
		"chunks", len(chunks))

	var validated []menu.MenuItem
	rawCount := 0

	for i, chunk := range chunks {
		if chunk == "" {
			p.logger.Debug("skipping empty chunk", "chunk", i+1)
			continue
		}

		p.logger.Info("processing chunk",
			"chunk", i+1,
			"total", len(chunks),
			"est_tokens", estimateTokens(chunk))

		result, err := p.extractor.Extract(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("chunk extraction failed, continuing",
				"chunk", i+1,
				"error", err)
			continue
		}

		rawCount += len(result.Menu.Items)
		for _, raw := range result.Menu.Items {
			item, err := menu.ParseItem(raw)
			if err != nil {
				p.logger.Debug("dropping invalid item",
					"chunk", i+1,
					"error", err)
				continue
			}
			validated = append(validated, *item)
		}
	}

	data := menu.Aggregate(validated, rawCount, req.RestaurantName, req.SourceFile, req.Method)
	p.logger.Info("menu parse complete",
		"restaurant", data.RestaurantName,
		"items", data.TotalItems,
		"confidence", data.ExtractionConfidence)
	return data, nil
}

// estimateTokens approximates token count for log visibility only.
func estimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}
