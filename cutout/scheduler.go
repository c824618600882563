package cutout

import (
	"context"
	"time"

	"github.com/chaos-io/cutout/rembg"
	"github.com/chaos-io/cutout/util"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 定时检查分割模型，未加载时重新加载
type Scheduler struct {
	cron    *cron.Cron
	model   *rembg.Model
	timeout time.Duration
}

func NewScheduler(model *rembg.Model, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		cron:    cron.New(),
		model:   model,
		timeout: timeout,
	}
}

// Start spec 为 cron 表达式，例如 "@every 5m"
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.reloadIfNeeded); err != nil {
		return err
	}
	s.cron.Start()
	util.Logger.Info("model reload scheduled", zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reloadIfNeeded() {
	if s.model == nil || s.model.Loaded() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.model.Reload(ctx); err != nil {
		return
	}
	util.Logger.Info("segmentation model recovered")
}
