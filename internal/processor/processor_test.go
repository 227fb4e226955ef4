package processor

import (
	"strings"
	"testing"
	"time"

	"github.com/LJTian/CampusFeed/internal/feed"
)

func TestHashURLDeterministicAndDistinct(t *testing.T) {
	url1 := "https://example.com/a"
	url2 := "https://example.com/b"

	h1a := hashURL(url1)
	h1b := hashURL(url1)
	h2 := hashURL(url2)

	if h1a != h1b {
		t.Fatalf("hashURL not deterministic: %q vs %q", h1a, h1b)
	}
	if h1a == h2 {
		t.Fatalf("hashURL should differ for different URLs: %q", h1a)
	}
}

func TestTruncateRunesHandlesChineseAndEllipsis(t *testing.T) {
	s := "你好，世界，这是一个很长的中文句子，用来测试截断逻辑。"
	out := truncateRunes(s, 5)
	if len([]rune(out)) != 6 { // 5 个字符 + 1 个省略号
		t.Fatalf("truncateRunes length = %d, want 6 (including ellipsis): %q", len([]rune(out)), out)
	}
	if !strings.HasSuffix(out, "…") {
		t.Fatalf("truncateRunes should append ellipsis: %q", out)
	}

	// limit 大于长度时不应截断
	full := truncateRunes("短文本", 10)
	if full != "短文本" {
		t.Fatalf("truncateRunes should keep original when under limit: %q", full)
	}
}

func TestHTMLTextCollapsesWhitespace(t *testing.T) {
	got := htmlText("<p>第一段</p>\n  <p>second   para</p>")
	if got != "第一段 second para" {
		t.Fatalf("htmlText = %q", got)
	}
	if htmlText("   ") != "" {
		t.Fatalf("htmlText of blank fragment should be empty")
	}
}

func TestSimpleProcessorDeduplicateAndFillSummary(t *testing.T) {
	p := NewSimpleProcessor()
	now := time.Now()

	items := []feed.Item{
		{
			Title:       " Title 1 ",
			Link:        "https://example.com/1",
			Description: "<div><p>desc 1</p></div>",
			PubDate:     &now,
		},
		{
			Title:       "Title 1 duplicate by URL",
			Link:        "https://example.com/1",
			Description: "desc 1 dup",
		},
		{
			Title: "Title 2 no desc",
			Link:  "https://example.com/2",
		},
		{
			Title: "no link",
		},
	}

	out := p.Process("tju-cic", "news", items)
	if len(out) != 2 {
		t.Fatalf("expected 2 processed items after dedupe, got %d", len(out))
	}

	// 第一条保留正文并提取摘要
	if out[0].Title != "Title 1" {
		t.Fatalf("title should be trimmed: %q", out[0].Title)
	}
	if out[0].Summary != "desc 1" {
		t.Fatalf("unexpected summary: %q", out[0].Summary)
	}
	if out[0].Content == "" || out[0].PublishedAt == nil {
		t.Fatalf("first item should keep content and pubDate: %+v", out[0])
	}
	if out[0].Site != "tju-cic" || out[0].Type != "news" {
		t.Fatalf("site/type not set: %+v", out[0])
	}

	// 第二条没有正文，应使用 Title 兜底
	if out[1].Summary != "Title 2 no desc" {
		t.Fatalf("unexpected fallback summary: %q", out[1].Summary)
	}
}
