package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DetailFetcher 抓取条目详情页，补全正文（description）与发布时间。
// 以条目链接为 key 走缓存；抓取失败时返回原条目，错误只用于记录。
type DetailFetcher struct {
	pages Pages
	cache Cache
	sel   DetailSelectors
	log   *zap.Logger
}

// NewDetailFetcher cache 可以为 nil，此时每次都直接抓取
func NewDetailFetcher(pages Pages, cache Cache, sel DetailSelectors, log *zap.Logger) *DetailFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &DetailFetcher{pages: pages, cache: cache, sel: sel, log: log}
}

// Fetch 返回的 Entry 总是可用的：
//   - Unknown 链接直接原样返回，不发请求；
//   - 抓取失败返回输入条目与 *FetchError（Kind=KindDetail），由调用方决定如何记录；
//   - 成功时返回补全后的条目，并写入缓存，同一链接再次调用不会重复请求。
func (d *DetailFetcher) Fetch(ctx context.Context, e Entry) (Entry, error) {
	if !e.LinkClass.Fetchable() {
		return e, nil
	}
	if d.cache == nil {
		return d.enrich(ctx, e)
	}

	raw, err := d.cache.TryGet(ctx, e.Link, func(ctx context.Context) ([]byte, error) {
		enriched, err := d.enrich(ctx, e)
		if err != nil {
			return nil, err
		}
		return json.Marshal(enriched)
	})
	if err != nil {
		return e, err
	}

	var out Entry
	if err := json.Unmarshal(raw, &out); err != nil {
		return e, fmt.Errorf("decode cached entry %s: %w", e.Link, err)
	}
	return out, nil
}

func (d *DetailFetcher) enrich(ctx context.Context, e Entry) (Entry, error) {
	html, err := d.pages.Fetch(ctx, e.Link, "")
	if err != nil {
		return e, withKind(KindDetail, e.Link, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return e, withKind(KindDetail, e.Link, err)
	}

	// 日期通常在待删除的元信息块里，必须先取日期再删节点
	if d.sel.Date != "" {
		raw := doc.Find(d.sel.Date).First().Text()
		if t, err := d.sel.DateFormat.Parse(raw); err == nil {
			e.PublishedAt = &t
		} else {
			d.log.Warn("detail date ignored", zap.String("link", e.Link), zap.Error(err))
		}
	}

	for _, s := range d.sel.Strip {
		doc.Find(s).Remove()
	}

	if d.sel.Body != "" {
		body := doc.Find(d.sel.Body).First()
		if body.Length() > 0 {
			content, err := body.Html()
			if err == nil {
				e.Description = strings.TrimSpace(content)
			}
		}
	}
	return e, nil
}
