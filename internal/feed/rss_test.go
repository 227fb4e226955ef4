package feed

import (
	"bytes"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRSSParses(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.FixedZone("CST", 8*3600))
	p := Payload{
		Title: "天津大学智能与计算学部 - 学部新闻",
		Link:  "http://cic.tju.edu.cn/xwzx/xyxw.htm",
		Items: []Item{
			{Title: "一", Link: "http://cic.tju.edu.cn/info/1.htm", PubDate: &ts, Description: "<p>正文</p>"},
			{Title: "二", Link: "https://mp.weixin.qq.com/s/x"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, p, ts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("<?xml")))

	parsed, err := gofeed.NewParser().ParseString(buf.String())
	require.NoError(t, err)

	assert.Equal(t, "rss", parsed.FeedType)
	assert.Equal(t, p.Title, parsed.Title)
	assert.Equal(t, p.Title, parsed.Description)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "一", parsed.Items[0].Title)
	assert.Equal(t, "<p>正文</p>", parsed.Items[0].Description)
	require.NotNil(t, parsed.Items[0].PublishedParsed)
	assert.True(t, parsed.Items[0].PublishedParsed.Equal(ts))
	assert.Equal(t, "https://mp.weixin.qq.com/s/x", parsed.Items[1].Link)
	assert.Nil(t, parsed.Items[1].PublishedParsed)
}

func TestWriteRSSUnreachableDescription(t *testing.T) {
	desc := "链接失效http://www.caai.cn/x"
	p := Payload{Title: "t", Link: "http://www.caai.cn/x", Description: &desc}

	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, p, time.Now()))

	parsed, err := gofeed.NewParser().ParseString(buf.String())
	require.NoError(t, err)
	assert.Equal(t, desc, parsed.Description)
	assert.Empty(t, parsed.Items)
}
