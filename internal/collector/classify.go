package collector

import (
	"fmt"
	"net/url"
	"strings"
)

// Classifier 判断链接归属：站内、已知外部站点或未知。
// 只有站内与已知外部站点的详情页才具备统一的正文容器结构。
type Classifier struct {
	base    *url.URL
	ownHost string
	known   map[string]struct{}
}

// NewClassifier 以站点根地址为基准；knownHosts 为允许抓取详情的外部 host
func NewClassifier(baseURL string, knownHosts ...string) (*Classifier, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	known := make(map[string]struct{}, len(knownHosts))
	for _, h := range knownHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			known[h] = struct{}{}
		}
	}
	return &Classifier{
		base:    base,
		ownHost: strings.ToLower(base.Hostname()),
		known:   known,
	}, nil
}

// Classify 返回链接类别与输出用的链接：
// 相对路径一律视为站内并按 base 解析为绝对地址；
// Unknown 的链接原样返回，不做解析。
func (c *Classifier) Classify(href string) (LinkClass, string) {
	href = strings.TrimSpace(href)
	if href == "" {
		return LinkUnknown, href
	}
	u, err := url.Parse(href)
	if err != nil {
		return LinkUnknown, href
	}
	if u.Scheme == "" && u.Host == "" {
		return LinkSameSite, c.base.ResolveReference(u).String()
	}

	// 协议相对地址（//host/path）借用 base 的协议
	abs := c.base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return LinkUnknown, href
	}
	host := strings.ToLower(abs.Hostname())
	if host == c.ownHost {
		return LinkSameSite, abs.String()
	}
	if _, ok := c.known[host]; ok {
		return LinkKnownExternal, abs.String()
	}
	return LinkUnknown, href
}
