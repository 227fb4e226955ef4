package collector

import (
	"context"
	"time"
)

// LinkClass 描述条目链接相对于站点的归属，决定是否抓取详情页
type LinkClass int

const (
	// LinkUnknown 未识别的外部链接：不抓详情，链接原样透传
	LinkUnknown LinkClass = iota
	// LinkSameSite 站内链接（相对路径或与站点同 host）
	LinkSameSite
	// LinkKnownExternal 已知的外部站点，页面结构与站内一致，可抓详情
	LinkKnownExternal
)

func (c LinkClass) String() string {
	switch c {
	case LinkSameSite:
		return "same_site"
	case LinkKnownExternal:
		return "known_external"
	default:
		return "unknown"
	}
}

// Fetchable 仅站内与已知外部站点的详情页结构可预期
func (c LinkClass) Fetchable() bool {
	return c == LinkSameSite || c == LinkKnownExternal
}

// Entry 列表页解析出的条目。
// Link 离开 ListingExtractor 时总是绝对地址（Unknown 链接除外，原样透传）；
// Description 只有在详情页抓取成功后才会填充。
type Entry struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PublishedAt *time.Time `json:"pubDate,omitempty"`
	Description string     `json:"description,omitempty"`
	LinkClass   LinkClass  `json:"linkClass"`
}

// DateFormat 站点日期格式：形如 YYYY-MM-DD 的模式 + 固定时区偏移（小时）
type DateFormat struct {
	Pattern   string
	UTCOffset int
}

// Parse 按站点格式解析日期文本
func (f DateFormat) Parse(raw string) (time.Time, error) {
	return NormalizeDate(raw, f.Pattern, f.UTCOffset)
}

// ListingSelectors 列表页的选择器配置
type ListingSelectors struct {
	// Item 每个列表项
	Item string
	// Title 标题所在元素（取文本并 trim）
	Title string
	// Link 链接所在元素，为空时与 Title 相同
	Link string
	// LinkAttr 链接属性，默认 href
	LinkAttr string
	// Date 可选：列表项中的日期元素
	Date       string
	DateFormat DateFormat
}

// DetailSelectors 详情页的选择器配置
type DetailSelectors struct {
	// Body 正文容器，取其 inner HTML 作为 description
	Body string
	// Date 可选：取第一个匹配元素的文本作为发布时间
	Date       string
	DateFormat DateFormat
	// Strip 提取正文前要删除的节点（正文容器里重复的标题/元信息块）
	Strip []string
}

// Pages 抓取一个页面的 HTML；referer 为空时不设置 Referer
type Pages interface {
	Fetch(ctx context.Context, url, referer string) (string, error)
}

// Cache 按 key 读取或回填，populate 返回错误时不写缓存
type Cache interface {
	TryGet(ctx context.Context, key string, populate func(context.Context) ([]byte, error)) ([]byte, error)
}
