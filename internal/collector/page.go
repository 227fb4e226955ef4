package collector

import (
	"context"
	"errors"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	defaultUserAgent      = "CampusFeedBot/1.0"
	defaultRequestTimeout = 15 * time.Second
)

// PageFetcher 基于 colly 的 HTML 抓取；每次 Fetch 使用独立的 collector，
// 避免 colly 的“已访问”去重影响同一链接的重复抓取。
type PageFetcher struct {
	userAgent string
	timeout   time.Duration
}

func NewPageFetcher(userAgent string, timeout time.Duration) *PageFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &PageFetcher{userAgent: userAgent, timeout: timeout}
}

// Fetch GET 指定页面并返回 HTML；非 2xx 作为错误返回。
// 部分站点拒绝无 Referer 的请求，此时传入 referer。
func (p *PageFetcher) Fetch(ctx context.Context, url, referer string) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(p.userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(p.timeout)

	if referer != "" {
		c.OnRequest(func(r *colly.Request) {
			r.Headers.Set("Referer", referer)
		})
	}

	var (
		body     []byte
		status   int
		received bool
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
		received = true
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		return "", &FetchError{URL: url, StatusCode: status, Err: err}
	}
	if !received {
		return "", &FetchError{URL: url, StatusCode: status, Err: errors.New("empty response")}
	}
	return string(body), nil
}
