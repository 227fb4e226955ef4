// Package site 以声明式配置描述各个来源站点：列表页地址、选择器与日期格式。
package site

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LJTian/CampusFeed/internal/collector"
)

// Category 站点下的一个栏目
type Category struct {
	Subtitle string
	Path     string
}

// Site 一个来源站点的全部抓取配置
type Site struct {
	Name    string
	Title   string
	BaseURL string
	// KnownHosts 结构与本站一致、允许抓详情的外部 host
	KnownHosts []string
	// Referer 非空时列表页请求带上该 Referer
	Referer     string
	DefaultType string
	// Categories 固定栏目；为空时 type 直接作为 ListingPath 的参数（如分类 id）
	Categories  map[string]Category
	ListingPath func(typ string) string
	Listing     collector.ListingSelectors
	Detail      collector.DetailSelectors
	// WrapDescription 是否把正文套进展示模板
	WrapDescription bool
}

// Request 一次列表页请求
type Request struct {
	Site     *Site
	Type     string
	Subtitle string
	URL      string
	Referer  string
}

// Resolve 把 type 参数解析为具体的列表页请求；空 type 使用默认值，
// 未知的固定栏目回退到默认栏目。
func (s *Site) Resolve(typ string) Request {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		typ = s.DefaultType
	}

	subtitle := typ
	path := ""
	if len(s.Categories) > 0 {
		cat, ok := s.Categories[typ]
		if !ok {
			typ = s.DefaultType
			cat = s.Categories[typ]
		}
		subtitle = cat.Subtitle
		path = cat.Path
	} else if s.ListingPath != nil {
		path = s.ListingPath(typ)
	}

	return Request{
		Site:     s,
		Type:     typ,
		Subtitle: subtitle,
		URL:      joinURL(s.BaseURL, path),
		Referer:  s.Referer,
	}
}

// FeedTitle 形如 "站点名 - 栏目名"
func (r Request) FeedTitle() string {
	if r.Subtitle == "" {
		return r.Site.Title
	}
	return r.Site.Title + " - " + r.Subtitle
}

// Types 返回固定栏目（排序后），用于列表展示与定时刷新
func (s *Site) Types() []string {
	if len(s.Categories) == 0 {
		return []string{s.DefaultType}
	}
	out := make([]string, 0, len(s.Categories))
	for k := range s.Categories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// Registry 按名称索引站点
type Registry struct {
	sites map[string]*Site
}

func NewRegistry(sites ...*Site) (*Registry, error) {
	r := &Registry{sites: make(map[string]*Site, len(sites))}
	for _, s := range sites {
		if s.Name == "" {
			return nil, fmt.Errorf("site without name")
		}
		if _, dup := r.sites[s.Name]; dup {
			return nil, fmt.Errorf("duplicate site %q", s.Name)
		}
		if _, err := collector.NewClassifier(s.BaseURL, s.KnownHosts...); err != nil {
			return nil, fmt.Errorf("site %q: %w", s.Name, err)
		}
		r.sites[s.Name] = s
	}
	return r, nil
}

func (r *Registry) Get(name string) (*Site, bool) {
	s, ok := r.sites[name]
	return s, ok
}

// All 按名称排序返回所有站点
func (r *Registry) All() []*Site {
	out := make([]*Site, 0, len(r.sites))
	for _, s := range r.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
