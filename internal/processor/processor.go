package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/LJTian/CampusFeed/internal/feed"
	"github.com/PuerkitoBio/goquery"
)

// summaryMaxRunes 归档摘要的最大字符数（按 rune 计）
const summaryMaxRunes = 200

// ProcessedArticle 是写入归档前的统一结构
type ProcessedArticle struct {
	ID          string
	Site        string
	Type        string
	Title       string
	URL         string
	Summary     string
	Content     string
	PublishedAt *time.Time
}

// SimpleProcessor 做最基础的数据清洗与 ID 生成
type SimpleProcessor struct{}

func NewSimpleProcessor() *SimpleProcessor {
	return &SimpleProcessor{}
}

// Process 按链接去重，正文 HTML 另外提取纯文本摘要；摘要为空时用标题兜底
func (p *SimpleProcessor) Process(siteName, typ string, items []feed.Item) []ProcessedArticle {
	out := make([]ProcessedArticle, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		if strings.TrimSpace(it.Link) == "" {
			continue
		}
		id := hashURL(it.Link)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		title := strings.TrimSpace(it.Title)
		summary := truncateRunes(htmlText(it.Description), summaryMaxRunes)
		if summary == "" {
			summary = title
		}

		out = append(out, ProcessedArticle{
			ID:          id,
			Site:        siteName,
			Type:        typ,
			Title:       title,
			URL:         it.Link,
			Summary:     summary,
			Content:     it.Description,
			PublishedAt: it.PubDate,
		})
	}

	return out
}

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// htmlText 提取 HTML 片段中的纯文本并压缩空白
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// truncateRunes 按 rune 截断，超出时追加省略号
func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if limit <= 0 || len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}
