package parser

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/gateway"
)

type HtmlEngine struct{}

func NewHtmlEngine() *HtmlEngine {
	return &HtmlEngine{}
}

func (he *HtmlEngine) Name() string {
	return "html"
}

// Process extracts page metadata with goquery selectors and returns an
// [entity.PageResult] struct.
func (he *HtmlEngine) Process(page *gateway.Page) (*entity.PageResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Html))
	if err != nil {
		return nil, err
	}

	result := &entity.PageResult{
		URL:        page.URL,
		StatusCode: page.StatusCode,
		HtmlSize:   len(page.Html),
		ElapsedMs:  page.Elapsed.Milliseconds(),
		Engine:     he.Name(),
	}

	result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if len(result.Title) == 0 {
		result.Title = metaContent(doc, `meta[property="og:title"]`)
	}
	if len(result.Title) == 0 {
		return nil, errors.New("document has no title, not a content page")
	}

	result.Description = metaContent(doc, `meta[name="description"]`)
	if len(result.Description) == 0 {
		result.Description = metaContent(doc, `meta[property="og:description"]`)
	}

	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		result.CanonicalURL = strings.TrimSpace(canonical)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if len(href) == 0 || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		result.LinksCount++
	})

	return result, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
