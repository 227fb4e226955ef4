// Package feed 把列表页抓取、链接分类、详情补全串成完整的 feed。
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/LJTian/CampusFeed/internal/collector"
	"github.com/LJTian/CampusFeed/internal/site"
	"go.uber.org/zap"
)

// ErrUnknownSite 请求的站点未注册
var ErrUnknownSite = errors.New("unknown site")

// Service 对外只暴露“按站点 + type 生成 feed”，上游故障全部在内部吸收
type Service struct {
	registry  *site.Registry
	pages     collector.Pages
	cache     collector.Cache
	assembler *Assembler
	log       *zap.Logger
}

func NewService(registry *site.Registry, pages collector.Pages, cache collector.Cache, assembler *Assembler, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if assembler == nil {
		assembler = NewAssembler("")
	}
	return &Service{
		registry:  registry,
		pages:     pages,
		cache:     cache,
		assembler: assembler,
		log:       log,
	}
}

func (s *Service) Registry() *site.Registry {
	return s.registry
}

// Build 生成指定站点、栏目的 feed；只有站点不存在时返回错误
func (s *Service) Build(ctx context.Context, siteName, typ string) (Payload, error) {
	st, ok := s.registry.Get(siteName)
	if !ok {
		return Payload{}, ErrUnknownSite
	}
	return s.BuildRequest(ctx, st.Resolve(typ)), nil
}

// BuildRequest 执行一次完整的抓取流程：
// 列表页失败 -> 兜底 feed；单条详情失败 -> 该条无正文，不影响其它条目。
func (s *Service) BuildRequest(ctx context.Context, req site.Request) Payload {
	log := s.log.With(zap.String("site", req.Site.Name), zap.String("type", req.Type))

	html, err := s.pages.Fetch(ctx, req.URL, req.Referer)
	if err != nil {
		err = collector.ListingError(req.URL, err)
		log.Warn("listing unreachable", zap.String("url", req.URL), zap.Error(err))
		return s.assembler.Assemble(req, nil, err)
	}

	classifier, err := collector.NewClassifier(req.Site.BaseURL, req.Site.KnownHosts...)
	if err != nil {
		log.Error("invalid site base url", zap.Error(err))
		return s.assembler.Assemble(req, nil, err)
	}

	entries, err := collector.NewListingExtractor(req.Site.Listing, classifier, log).Extract(html)
	if err != nil {
		log.Warn("listing parse failed", zap.String("url", req.URL), zap.Error(err))
		return s.assembler.Assemble(req, nil, collector.ListingError(req.URL, err))
	}
	if len(entries) == 0 {
		log.Info("listing got 0 items", zap.String("url", req.URL))
	}

	entries = s.enrich(ctx, log, req.Site, entries)
	return s.assembler.Assemble(req, entries, nil)
}

// enrich 所有条目的详情页同时发起，结果按列表原顺序回填
func (s *Service) enrich(ctx context.Context, log *zap.Logger, st *site.Site, entries []collector.Entry) []collector.Entry {
	fetcher := collector.NewDetailFetcher(s.pages, s.cache, st.Detail, log)

	out := make([]collector.Entry, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e collector.Entry) {
			defer wg.Done()
			got, err := fetcher.Fetch(ctx, e)
			if err != nil {
				log.Warn("detail fetch failed", zap.String("link", e.Link), zap.Error(err))
			}
			if st.WrapDescription && got.Description != "" {
				got.Description = renderDescription(got.Description)
			}
			out[i] = got
		}(i, e)
	}
	wg.Wait()
	return out
}
