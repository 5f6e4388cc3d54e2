package entity

import (
	"gorm.io/gorm"
)

type PageResult struct {
	gorm.Model
	JobID        uint   `json:"job_id" gorm:"index"`
	URL          string `json:"url" gorm:"size:2048;not null"`
	StatusCode   int    `json:"status_code" gorm:"default:0;not null"`
	Title        string `json:"title" gorm:"size:1024"`
	Description  string `json:"description"`
	CanonicalURL string `json:"canonical_url" gorm:"size:2048"`
	LinksCount   int    `json:"links_count" gorm:"default:0;not null"`
	HtmlSize     int    `json:"html_size" gorm:"default:0;not null"`
	ElapsedMs    int64  `json:"elapsed_ms" gorm:"default:0;not null"`
	Engine       string `json:"engine" gorm:"size:16"`
}

func (r *PageResult) Equal(result *PageResult) bool {
	return r.URL == result.URL &&
		r.StatusCode == result.StatusCode &&
		r.Title == result.Title &&
		r.Description == result.Description &&
		r.CanonicalURL == result.CanonicalURL &&
		r.LinksCount == result.LinksCount &&
		r.HtmlSize == result.HtmlSize
}
