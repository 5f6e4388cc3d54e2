package parser

import (
	"errors"

	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/gateway"
	"github.com/molchan/harvester/internal/llm"
)

// LlmEngine is the last resort for pages the structural engines reject.
// It is expensive, so it should always sit at the end of the engine chain.
type LlmEngine struct {
	extractor *llm.Extractor
}

func NewLlmEngine(extractor *llm.Extractor) *LlmEngine {
	return &LlmEngine{extractor: extractor}
}

func (le *LlmEngine) Name() string {
	return "llm"
}

func (le *LlmEngine) Process(page *gateway.Page) (*entity.PageResult, error) {
	metadata, err := le.extractor.ExtractMetadata(page.Html)
	if err != nil {
		return nil, err
	}
	if len(metadata.Title) == 0 {
		return nil, errors.New("model extracted no title")
	}

	return &entity.PageResult{
		URL:          page.URL,
		StatusCode:   page.StatusCode,
		Title:        metadata.Title,
		Description:  metadata.Description,
		CanonicalURL: metadata.CanonicalURL,
		HtmlSize:     len(page.Html),
		ElapsedMs:    page.Elapsed.Milliseconds(),
		Engine:       le.Name(),
	}, nil
}
