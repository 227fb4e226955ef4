package site

import (
	"github.com/LJTian/CampusFeed/internal/collector"
)

// 两个站点都只给本地时间、没有时区标记，统一按东八区处理
const east8 = 8

// CAAI 中国人工智能学会，type 为文章分类 id
func CAAI() *Site {
	return &Site{
		Name:        "caai",
		Title:       "中国人工智能学会",
		BaseURL:     "http://www.caai.cn",
		DefaultType: "45",
		ListingPath: func(caty string) string {
			return "index.php?s=/home/article/index/id/" + caty + ".html"
		},
		Listing: collector.ListingSelectors{
			Item:       "div.article-list > ul > li",
			Title:      "h3 a[href]",
			Date:       "h4",
			DateFormat: collector.DateFormat{Pattern: "YYYY-MM-DD", UTCOffset: east8},
		},
		Detail: collector.DetailSelectors{
			Body: "div.article",
		},
		WrapDescription: true,
	}
}

// TJUCIC 天津大学智能与计算学部
func TJUCIC() *Site {
	return &Site{
		Name:        "tju-cic",
		Title:       "天津大学智能与计算学部",
		BaseURL:     "http://cic.tju.edu.cn/",
		Referer:     "http://cic.tju.edu.cn/",
		DefaultType: "news",
		Categories: map[string]Category{
			"news":         {Subtitle: "学部新闻", Path: "xwzx/xyxw.htm"},
			"notification": {Subtitle: "通知公告", Path: "xwzx/tzgg.htm"},
			"forum":        {Subtitle: "北洋智算论坛", Path: "byzslt.htm"},
		},
		Listing: collector.ListingSelectors{
			Item:  ".wenzi_list_ul > li",
			Title: "a",
		},
		Detail: collector.DetailSelectors{
			Body:       ".con_news_body > div",
			Date:       ".news_info > span",
			DateFormat: collector.DateFormat{Pattern: "YYYY年MM月DD日 HH:mm", UTCOffset: east8},
			Strip:      []string{".news_tit", ".news_info"},
		},
	}
}

// Builtin 内置站点注册表
func Builtin() *Registry {
	r, err := NewRegistry(CAAI(), TJUCIC())
	if err != nil {
		panic(err)
	}
	return r
}
