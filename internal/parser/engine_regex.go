package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/gateway"
)

// RegexEngine is the fallback for markup goquery cannot make sense of. It
// only recovers the title and meta description.
type RegexEngine struct{}

var (
	titleRe       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descriptionRe = regexp.MustCompile(`(?is)<meta\s+name="description"\s+content="([^"]*)"`)
	anchorRe      = regexp.MustCompile(`(?i)<a\s[^>]*href="[^"#][^"]*"`)
)

func NewRegexEngine() *RegexEngine {
	return &RegexEngine{}
}

func (re *RegexEngine) Name() string {
	return "regex"
}

// Process event page with regexp, extract relevant information and return
// [entity.PageResult] struct
func (re *RegexEngine) Process(page *gateway.Page) (*entity.PageResult, error) {
	match := titleRe.FindStringSubmatch(page.Html)
	if match == nil {
		return nil, errors.New("title tag not found in the HTML page")
	}

	result := &entity.PageResult{
		URL:        page.URL,
		StatusCode: page.StatusCode,
		Title:      strings.TrimSpace(match[1]),
		HtmlSize:   len(page.Html),
		ElapsedMs:  page.Elapsed.Milliseconds(),
		Engine:     re.Name(),
	}
	if len(result.Title) == 0 {
		return nil, errors.New("title tag is empty")
	}

	if match = descriptionRe.FindStringSubmatch(page.Html); match != nil {
		result.Description = strings.TrimSpace(match[1])
	}
	result.LinksCount = len(anchorRe.FindAllString(page.Html, -1))

	return result, nil
}
