package parser

import (
	"fmt"
	"log/slog"

	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/gateway"
)

// Parser runs pages through its engines in order, first success wins.
type Parser struct {
	engines []Engine
}

func NewParser(engines ...Engine) *Parser {
	return &Parser{
		engines: engines,
	}
}

// ParsePage tries every engine against the page. The error returned belongs
// to the last engine, earlier failures are only logged.
func (p *Parser) ParsePage(page *gateway.Page) (*entity.PageResult, error) {
	if len(p.engines) == 0 {
		return nil, fmt.Errorf("no engines configured")
	}

	var lastErr error
	for _, engine := range p.engines {
		result, err := engine.Process(page)
		if err == nil {
			return result, nil
		}
		slog.Debug("engine failed on page", "engine", engine.Name(), "url", page.URL, "err", err)
		lastErr = err
	}
	return nil, fmt.Errorf("all engines failed for %s: %w", page.URL, lastErr)
}

// Parse processes a batch. Pages no engine can handle are logged and
// skipped, a parse problem never aborts the run.
func (p *Parser) Parse(pages []gateway.Page) []entity.PageResult {
	var results []entity.PageResult
	for k := range pages {
		result, err := p.ParsePage(&pages[k])
		if err != nil {
			slog.Warn("skipping unparseable page", "url", pages[k].URL, "err", err)
			continue
		}
		results = append(results, *result)
	}
	return results
}
