package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LJTian/CampusFeed/internal/feed"
	"github.com/LJTian/CampusFeed/internal/site"
	"github.com/LJTian/CampusFeed/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downPages struct{}

func (downPages) Fetch(_ context.Context, url, _ string) (string, error) {
	return "", errors.New("dial tcp: connection refused")
}

type fakeArchive struct {
	gotSite, gotType string
	gotLimit         int
}

func (f *fakeArchive) ListArticles(site, typ string, limit int) ([]storage.Article, error) {
	f.gotSite, f.gotType, f.gotLimit = site, typ, limit
	return []storage.Article{{ID: "1", Site: site, Type: typ, Title: "t"}}, nil
}

func (f *fakeArchive) ListFeeds() ([]storage.Feed, error) {
	return []storage.Feed{
		{Site: "caai", Type: "45", Status: "active"},
		{Site: "tju-cic", Type: "news", Status: "unreachable"},
	}, nil
}

func newTestRouter(archive ArchiveReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := feed.NewService(site.Builtin(), downPages{}, nil, nil, nil)
	r := gin.New()
	NewServer(svc, archive).RegisterRoutes(r)
	return r
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetFeedUnknownSite(t *testing.T) {
	w := doGet(newTestRouter(nil), "/feeds/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFeedUnreachableStillOK(t *testing.T) {
	w := doGet(newTestRouter(nil), "/feeds/tju-cic/notification")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "天津大学智能与计算学部 - 通知公告", body["title"])
	assert.Contains(t, body["description"], "http://cic.tju.edu.cn/xwzx/tzgg.htm")
	items, ok := body["item"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestGetFeedRSS(t *testing.T) {
	w := doGet(newTestRouter(nil), "/feeds/caai?format=rss")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, w.Body.String(), `<rss version="2.0"`)
}

func TestListSites(t *testing.T) {
	w := doGet(newTestRouter(nil), "/api/v1/sites")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []siteView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "caai", body.Data[0].Name)
	assert.Equal(t, []string{"forum", "news", "notification"}, body.Data[1].Types)
}

func TestListArticles(t *testing.T) {
	w := doGet(newTestRouter(nil), "/api/v1/articles")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	lister := &fakeArchive{}
	w = doGet(newTestRouter(lister), "/api/v1/articles?site=caai&type=45&limit=abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "caai", lister.gotSite)
	assert.Equal(t, "45", lister.gotType)
	assert.Equal(t, 20, lister.gotLimit)
}

func TestListFeeds(t *testing.T) {
	w := doGet(newTestRouter(nil), "/api/v1/feeds")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doGet(newTestRouter(&fakeArchive{}), "/api/v1/feeds")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []storage.Feed `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "unreachable", body.Data[1].Status)
}

func TestBasicAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BasicAuth("admin", "secret"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/feeds/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/health").Code)

	w := doGet(r, "/feeds/x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/feeds/x", nil)
	req.SetBasicAuth("admin", "secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
