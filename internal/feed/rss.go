package feed

import (
	"io"
	"time"

	"github.com/gorilla/feeds"
)

// WriteRSS 把 Payload 渲染为 RSS 2.0；channel description 为空时用标题代替
func WriteRSS(w io.Writer, p Payload, now time.Time) error {
	desc := p.Title
	if p.Description != nil {
		desc = *p.Description
	}
	out := &feeds.Feed{
		Title:       p.Title,
		Link:        &feeds.Link{Href: p.Link},
		Description: desc,
		Updated:     now,
		Items:       make([]*feeds.Item, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		fi := &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Id:          it.Link,
			Description: it.Description,
		}
		if it.PubDate != nil {
			fi.Created = *it.PubDate
		}
		out.Items = append(out.Items, fi)
	}
	return out.WriteRss(w)
}
