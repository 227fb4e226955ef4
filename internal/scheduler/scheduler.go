package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/LJTian/CampusFeed/internal/feed"
	"github.com/LJTian/CampusFeed/internal/processor"
	"github.com/LJTian/CampusFeed/internal/site"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Archiver 归档生成结果；未配置数据库时为 nil
type Archiver interface {
	SaveBatch(items []processor.ProcessedArticle) error
	TouchFeed(site, typ, title, link string, reachable bool) error
}

// Scheduler 定时重建所有站点的所有栏目，顺带预热详情页缓存
type Scheduler struct {
	cron      *cron.Cron
	service   *feed.Service
	processor *processor.SimpleProcessor
	archive   Archiver
	log       *zap.Logger
	timeout   time.Duration
}

func New(spec string, svc *feed.Service, p *processor.SimpleProcessor, archive Archiver, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := cron.New()

	s := &Scheduler{
		cron:      c,
		service:   svc,
		processor: p,
		archive:   archive,
		log:       log,
		timeout:   5 * time.Minute,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮刷新，避免与服务启动后的首批请求争抢上游
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

// Stop 等待正在执行的任务结束
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	s.log.Info("start refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, st := range s.service.Registry().All() {
		for _, typ := range st.Types() {
			req := st.Resolve(typ)
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.refresh(ctx, req)
			}()
		}
	}

	wg.Wait()
	s.log.Info("refresh job done (all feeds)")
}

func (s *Scheduler) refresh(ctx context.Context, req site.Request) {
	log := s.log.With(zap.String("site", req.Site.Name), zap.String("type", req.Type))

	payload := s.service.BuildRequest(ctx, req)
	if s.archive == nil {
		log.Info("feed refreshed", zap.Int("items", len(payload.Items)))
		return
	}

	reachable := !payload.Unreachable()
	if err := s.archive.TouchFeed(req.Site.Name, req.Type, payload.Title, payload.Link, reachable); err != nil {
		log.Warn("touch feed failed", zap.Error(err))
	}
	if !reachable {
		return
	}

	processed := s.processor.Process(req.Site.Name, req.Type, payload.Items)
	if len(processed) == 0 {
		return
	}
	if err := s.archive.SaveBatch(processed); err != nil {
		log.Warn("save batch failed", zap.Error(err))
		return
	}
	log.Info("feed refreshed", zap.Int("items", len(payload.Items)), zap.Int("saved", len(processed)))
}
