package feed

import (
	"fmt"
	"time"

	"github.com/LJTian/CampusFeed/internal/collector"
	"github.com/LJTian/CampusFeed/internal/site"
)

// DefaultIssueURL 上游不可达时提示用户反馈的地址
const DefaultIssueURL = "https://github.com/LJTian/CampusFeed/issues"

// Item 输出给渲染层的条目
type Item struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PubDate     *time.Time `json:"pubDate,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Payload 一个 feed 的完整输出；来源正常时 Description 为 null
type Payload struct {
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	Description *string `json:"description"`
	Items       []Item  `json:"item"`
}

// Unreachable 是否为列表页不可达时的兜底 feed
func (p Payload) Unreachable() bool {
	return p.Description != nil
}

// Assembler 组装 feed；列表页抓取失败时输出只含一条提示的兜底 feed
type Assembler struct {
	IssueURL string
}

func NewAssembler(issueURL string) *Assembler {
	if issueURL == "" {
		issueURL = DefaultIssueURL
	}
	return &Assembler{IssueURL: issueURL}
}

// Assemble listErr 非空表示列表页不可达，此时忽略 entries
func (a *Assembler) Assemble(req site.Request, entries []collector.Entry, listErr error) Payload {
	if listErr != nil {
		return a.unreachable(req)
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{
			Title:       e.Title,
			Link:        e.Link,
			PubDate:     e.PublishedAt,
			Description: e.Description,
		})
	}
	return Payload{
		Title: req.FeedTitle(),
		Link:  req.URL,
		Items: items,
	}
}

func (a *Assembler) unreachable(req site.Request) Payload {
	desc := "链接失效" + req.URL
	return Payload{
		Title:       req.FeedTitle(),
		Link:        req.URL,
		Description: &desc,
		Items: []Item{{
			Title:       "提示信息",
			Link:        a.IssueURL,
			Description: fmt.Sprintf(`<h2>请到<a href=%s>此处</a>提交Issue</h2>`, a.IssueURL),
		}},
	}
}
