package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-profile-flow/internal/usecase"
)

// TriggerRunner é uma varredura do disparo proativo.
type TriggerRunner interface {
	Run(ctx context.Context) (usecase.TriggerReport, error)
}

type ProfileTriggerWorker struct {
	runner       TriggerRunner
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewProfileTriggerWorker(runner TriggerRunner, interval time.Duration, logger *zap.Logger) *ProfileTriggerWorker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ProfileTriggerWorker{
		runner:       runner,
		tickInterval: interval,
		logger:       logger,
	}
}

// Start roda uma varredura imediata e depois uma por tick, até o contexto
// ser cancelado. Erros de uma varredura não param o worker.
func (w *ProfileTriggerWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 worker de disparo proativo iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker de disparo proativo encerrado")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ProfileTriggerWorker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("❌ panic na varredura de perfis", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	report, err := w.runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("❌ varredura de perfis falhou", zap.Error(err))
		return
	}

	if report.Sent > 0 || report.Failed > 0 {
		w.logger.Info("✅ varredura de perfis concluída",
			zap.Int("eligible", report.Eligible),
			zap.Int("sent", report.Sent),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed))
	}
}
