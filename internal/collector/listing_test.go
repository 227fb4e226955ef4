package collector

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, sel ListingSelectors) *ListingExtractor {
	t.Helper()
	c, err := NewClassifier("http://www.caai.cn")
	require.NoError(t, err)
	return NewListingExtractor(sel, c, nil)
}

var caaiListing = ListingSelectors{
	Item:       "div.article-list > ul > li",
	Title:      "h3 a[href]",
	Date:       "h4",
	DateFormat: DateFormat{Pattern: "YYYY-MM-DD", UTCOffset: 8},
}

func TestExtractKeepsOrderAndResolvesLinks(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><div class="article-list"><ul>`)
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, `<li><h3><a href="/index.php?s=/home/article/detail/id/%d.html"> 标题 %d </a></h3><h4>2024-03-0%d</h4></li>`, i, i, i)
	}
	b.WriteString(`</ul></div></body></html>`)

	entries, err := newTestExtractor(t, caaiListing).Extract(b.String())
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("标题 %d", i+1), e.Title)
		assert.Equal(t, fmt.Sprintf("http://www.caai.cn/index.php?s=/home/article/detail/id/%d.html", i+1), e.Link)
		assert.Equal(t, LinkSameSite, e.LinkClass)
		require.NotNil(t, e.PublishedAt)
		assert.Equal(t, i+1, e.PublishedAt.Day())
		assert.Empty(t, e.Description)
	}
}

func TestExtractNoMatchesIsEmptyNotError(t *testing.T) {
	entries, err := newTestExtractor(t, caaiListing).Extract(`<html><body><p>维护中</p></body></html>`)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestExtractBadDateLeavesPublishedAtEmpty(t *testing.T) {
	html := `<div class="article-list"><ul>
<li><h3><a href="/a.html">A</a></h3><h4>昨天</h4></li>
<li><h3><a href="/b.html">B</a></h3></li>
</ul></div>`
	entries, err := newTestExtractor(t, caaiListing).Extract(html)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].PublishedAt)
	assert.Nil(t, entries[1].PublishedAt)
}

func TestExtractSkipsItemsWithoutLinkAndTagsExternal(t *testing.T) {
	sel := ListingSelectors{Item: ".wenzi_list_ul > li", Title: "a"}
	html := `<ul class="wenzi_list_ul">
<li><a href="info/1.htm">站内</a></li>
<li><a>无链接</a></li>
<li><a href="https://mp.weixin.qq.com/s/xyz">公众号</a></li>
</ul>`
	entries, err := newTestExtractor(t, sel).Extract(html)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "http://www.caai.cn/info/1.htm", entries[0].Link)
	assert.Equal(t, LinkSameSite, entries[0].LinkClass)
	assert.Equal(t, "https://mp.weixin.qq.com/s/xyz", entries[1].Link)
	assert.Equal(t, LinkUnknown, entries[1].LinkClass)
}
