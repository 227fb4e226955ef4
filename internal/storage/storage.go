package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LJTian/CampusFeed/internal/processor"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Feed 描述一个已生成过的 feed，例如 tju-cic/news
type Feed struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Site    string    `gorm:"size:64;uniqueIndex:idx_feed_site_type" json:"site"`
	Type    string    `gorm:"size:64;uniqueIndex:idx_feed_site_type" json:"type"`
	Title   string    `gorm:"size:256" json:"title"`
	Link    string    `gorm:"size:1024" json:"link"`
	Status  string    `gorm:"size:32;index" json:"status"` // active / unreachable
	LastRun time.Time `json:"lastRun"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Article 归档的 feed 条目，以链接为幂等键
type Article struct {
	ID    string `gorm:"primaryKey;size:40" json:"id"`
	Site  string `gorm:"size:64;index:idx_article_site_type" json:"site"`
	Type  string `gorm:"size:64;index:idx_article_site_type" json:"type"`
	Title string `gorm:"size:512" json:"title"`
	URL   string `gorm:"size:1024;uniqueIndex" json:"url"`
	// 纯文本摘要，长度控制在约 200 个字符（在 processor 中按 rune 截断）
	Summary       string            `gorm:"size:600" json:"summary"`
	Content       string            `gorm:"type:text" json:"content"`
	PublishedAt   *time.Time        `gorm:"index" json:"publishedAt"`
	PublishedDate string            `gorm:"size:10;index" json:"publishedDate"` // 日期 YYYY-MM-DD（东八区）
	ExtraData     datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
	log   *zap.Logger
}

// NewStore rdb 可以为 nil，此时列表查询不走缓存
func NewStore(dsn string, rdb *redis.Client, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewStoreWithDB(db, rdb, log)
}

// NewStoreWithDB 使用已打开的连接并迁移表结构
func NewStoreWithDB(db *gorm.DB, rdb *redis.Client, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&Feed{}, &Article{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{DB: db, Redis: rdb, log: log}, nil
}

// TouchFeed 记录一次生成结果；不存在则创建
func (s *Store) TouchFeed(site, typ, title, link string, reachable bool) error {
	status := "active"
	if !reachable {
		status = "unreachable"
	}
	f := &Feed{}
	// 结构体条件在创建时会写入 site/type
	err := s.DB.Where(Feed{Site: site, Type: typ}).
		Attrs(Feed{Title: title, Link: link}).
		FirstOrCreate(f).Error
	if err != nil {
		return err
	}
	return s.DB.Model(f).Updates(map[string]any{
		"title":    title,
		"link":     link,
		"status":   status,
		"last_run": time.Now(),
	}).Error
}

// ListFeeds 返回所有生成过的 feed
func (s *Store) ListFeeds() ([]Feed, error) {
	var list []Feed
	err := s.DB.Order("site ASC").Order("type ASC").Find(&list).Error
	return list, err
}

// 东八区，用于日期展示与筛选
var locEast8 *time.Location

func init() {
	locEast8, _ = time.LoadLocation("Asia/Shanghai")
	if locEast8 == nil {
		locEast8 = time.FixedZone("CST", 8*3600)
	}
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误（部分站点含 GBK 混编）
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truncateRunesDB 按 rune 数截断字符串，确保不会超过数据库字段长度（例如 varchar(600)）
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

func publishedDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(locEast8).Format("2006-01-02")
}

// SaveBatch 保存一批条目，已存在的按 URL 更新标题与正文
func (s *Store) SaveBatch(items []processor.ProcessedArticle) error {
	for _, it := range items {
		title := truncateRunesDB(toValidUTF8(it.Title), 512)
		summary := truncateRunesDB(toValidUTF8(it.Summary), 600)
		content := toValidUTF8(it.Content)
		pubDate := publishedDate(it.PublishedAt)
		a := &Article{
			ID:            it.ID,
			Site:          it.Site,
			Type:          it.Type,
			Title:         title,
			URL:           it.URL,
			Summary:       summary,
			Content:       content,
			PublishedAt:   it.PublishedAt,
			PublishedDate: pubDate,
			ExtraData:     datatypes.JSONMap{"has_content": content != ""},
		}

		if err := s.DB.Where("url = ?", it.URL).FirstOrCreate(a).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"title":   title,
			"summary": summary,
		}
		// 详情抓取失败的一轮不覆盖已有正文与日期
		if content != "" {
			updates["content"] = content
		}
		if it.PublishedAt != nil {
			updates["published_at"] = it.PublishedAt
			updates["published_date"] = pubDate
		}
		if err := s.DB.Model(a).Updates(updates).Error; err != nil {
			s.log.Warn("update article failed", zap.String("url", it.URL), zap.Error(err))
		}
	}

	// 不做按 key 通配删除，依赖短 TTL 的缓存自然过期
	return nil
}

func listCacheKey(site, typ string, limit int) string {
	return fmt.Sprintf("campusfeed:articles:%s:%s:%d", site, typ, limit)
}

// ListArticles 按站点、栏目返回归档条目（发布时间倒序，无日期的排在后面），使用 Redis 做简单缓存
func (s *Store) ListArticles(site, typ string, limit int) ([]Article, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := listCacheKey(site, typ, limit)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Article
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []Article
	db := s.DB.Model(&Article{})
	if site != "" {
		db = db.Where("site = ?", site)
	}
	if typ != "" {
		db = db.Where("type = ?", typ)
	}
	if err := db.Order("published_at DESC NULLS LAST").Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}
