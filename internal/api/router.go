package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/LJTian/CampusFeed/internal/feed"
	"github.com/LJTian/CampusFeed/internal/storage"
	"github.com/gin-gonic/gin"
)

// ArchiveReader 归档查询，未配置数据库时为 nil
type ArchiveReader interface {
	ListArticles(site, typ string, limit int) ([]storage.Article, error)
	ListFeeds() ([]storage.Feed, error)
}

type Server struct {
	feeds   *feed.Service
	archive ArchiveReader
}

func NewServer(feeds *feed.Service, archive ArchiveReader) *Server {
	return &Server{feeds: feeds, archive: archive}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	r.GET("/feeds/:site", s.getFeed)
	r.GET("/feeds/:site/:type", s.getFeed)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sites", s.listSites)
		v1.GET("/feeds", s.listFeeds)
		v1.GET("/articles", s.listArticles)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type siteView struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	BaseURL     string   `json:"baseUrl"`
	DefaultType string   `json:"defaultType"`
	Types       []string `json:"types"`
}

func (s *Server) listSites(c *gin.Context) {
	sites := s.feeds.Registry().All()
	out := make([]siteView, 0, len(sites))
	for _, st := range sites {
		out = append(out, siteView{
			Name:        st.Name,
			Title:       st.Title,
			BaseURL:     st.BaseURL,
			DefaultType: st.DefaultType,
			Types:       st.Types(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    out,
	})
}

// getFeed 上游不可达时仍返回 200 与兜底 feed，只有站点不存在时报 404
func (s *Server) getFeed(c *gin.Context) {
	payload, err := s.feeds.Build(c.Request.Context(), c.Param("site"), c.Param("type"))
	if errors.Is(err, feed.ErrUnknownSite) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "unknown site",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	if c.Query("format") == "rss" {
		var buf bytes.Buffer
		if err := feed.WriteRSS(&buf, payload, time.Now()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "internal_error",
				"message": "render rss failed",
			})
			return
		}
		c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) archiveDisabled(c *gin.Context) bool {
	if s.archive != nil {
		return false
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"code":    "archive_disabled",
		"message": "archive is not configured",
	})
	return true
}

// listFeeds 返回定时任务记录的各 feed 最近一次生成状态
func (s *Server) listFeeds(c *gin.Context) {
	if s.archiveDisabled(c) {
		return
	}
	list, err := s.archive.ListFeeds()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    list,
	})
}

func (s *Server) listArticles(c *gin.Context) {
	if s.archiveDisabled(c) {
		return
	}

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.archive.ListArticles(c.Query("site"), c.Query("type"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}
