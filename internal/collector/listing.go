package collector

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ListingExtractor 从列表页 HTML 中按选择器解析出条目（仅标题、链接与可选日期）
type ListingExtractor struct {
	sel        ListingSelectors
	classifier *Classifier
	log        *zap.Logger
}

func NewListingExtractor(sel ListingSelectors, classifier *Classifier, log *zap.Logger) *ListingExtractor {
	if sel.LinkAttr == "" {
		sel.LinkAttr = "href"
	}
	if sel.Link == "" {
		sel.Link = sel.Title
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ListingExtractor{sel: sel, classifier: classifier, log: log}
}

// Extract 按文档顺序返回条目；没有匹配项时返回空切片而不是错误。
// 缺少链接或标题的列表项会被跳过。
func (x *ListingExtractor) Extract(html string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	entries := make([]Entry, 0)
	doc.Find(x.sel.Item).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(x.sel.Title).First().Text())
		href, _ := s.Find(x.sel.Link).First().Attr(x.sel.LinkAttr)
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			return
		}

		class, link := x.classifier.Classify(href)
		e := Entry{
			Title:     title,
			Link:      link,
			LinkClass: class,
		}

		if x.sel.Date != "" {
			raw := strings.TrimSpace(s.Find(x.sel.Date).First().Text())
			if t, err := x.sel.DateFormat.Parse(raw); err == nil {
				e.PublishedAt = &t
			} else {
				x.log.Warn("listing date ignored", zap.String("link", link), zap.Error(err))
			}
		}
		entries = append(entries, e)
	})
	return entries, nil
}
