// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go_nocontact_keep/internal/middleware"
	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/service"

	"github.com/go-co-op/gocron"
)

// StreakMilestones は通知対象となる連続日数です (昇順)
var StreakMilestones = []int{1, 7, 14, 30, 60, 90}

// Notifier は節目の到達を利用者に伝えます
type Notifier interface {
	StreakMilestone(ctx context.Context, days int, st model.ProgressionState) error
	LevelReached(ctx context.Context, level model.HealingLevel, st model.ProgressionState) error
}

type Options struct {
	IntegrityInterval time.Duration
	MilestoneInterval time.Duration
}

// Scheduler は整合性チェックと節目通知を定期実行します
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   service.ReconciliationService
	notifier  Notifier
	clock     service.Clock
	logger    *slog.Logger
	opts      Options

	mu            sync.Mutex
	lastMilestone int
	lastLevel     model.HealingLevel
	primed        bool
}

func New(svc service.ReconciliationService, notifier Notifier, clock service.Clock, logger *slog.Logger, opts Options) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = service.SystemClock()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll() // 前回の実行が終わっていなければスキップ
	return &Scheduler{
		scheduler: s,
		service:   svc,
		notifier:  notifier,
		clock:     clock,
		logger:    logger.With(slog.String("component", "scheduler")),
		opts:      opts,
	}
}

// Start はジョブを登録し、非同期で実行を開始します
func (s *Scheduler) Start() error {
	ctx := middleware.WithLogger(context.Background(), s.logger)

	if s.opts.IntegrityInterval > 0 {
		if _, err := s.scheduler.Every(s.opts.IntegrityInterval).Do(s.RunIntegrityCheck, ctx); err != nil {
			return fmt.Errorf("scheduler.Start: integrity job: %w", err)
		}
	}
	if s.opts.MilestoneInterval > 0 {
		if _, err := s.scheduler.Every(s.opts.MilestoneInterval).Do(s.RunMilestoneCheck, ctx); err != nil {
			return fmt.Errorf("scheduler.Start: milestone job: %w", err)
		}
	}

	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started",
		slog.Duration("integrity_interval", s.opts.IntegrityInterval),
		slog.Duration("milestone_interval", s.opts.MilestoneInterval),
	)
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Scheduler stopped")
}

// RunIntegrityCheck は保存先とメモリ上の状態を突き合わせます
func (s *Scheduler) RunIntegrityCheck(ctx context.Context) {
	report, err := s.service.IntegrityCheck(ctx)
	if err != nil {
		s.logger.Error("Scheduled integrity check failed", slog.Any("error", err))
		return
	}
	s.logger.Info("Scheduled integrity check completed",
		slog.Int("records_removed", report.RecordsRemoved),
		slog.Int64("orphans_removed", report.OrphansRemoved),
		slog.Int("rows_restored", report.RowsRestored),
	)
}

// RunMilestoneCheck はレベル判定とバッジ評価を行い、新たに到達した節目を通知します。
// 保存に失敗してもメモリ上の状態で通知を続けます。
func (s *Scheduler) RunMilestoneCheck(ctx context.Context) {
	if _, _, err := s.service.AdvanceLevel(ctx); err != nil {
		s.logger.Warn("Level advance not persisted", slog.Any("error", err))
	}
	st, err := s.service.EvaluateBadges(ctx)
	if err != nil {
		s.logger.Warn("Badge evaluation not persisted", slog.Any("error", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	streak := st.CurrentStreakDays(s.clock.Now())
	if streak < s.lastMilestone {
		// 再発で連続日数がリセットされた
		s.lastMilestone = 0
	}
	reached := 0
	for _, m := range StreakMilestones {
		if streak >= m {
			reached = m
		}
	}

	if !s.primed {
		// 起動直後は現在の状態を基準にし、過去の節目を通知し直さない
		s.lastMilestone = reached
		s.lastLevel = st.CurrentLevel
		s.primed = true
		return
	}

	if reached > s.lastMilestone {
		if err := s.notifier.StreakMilestone(ctx, reached, st); err != nil {
			s.logger.Error("Failed to send streak notification", slog.Int("days", reached), slog.Any("error", err))
		} else {
			s.lastMilestone = reached
		}
	}
	if st.CurrentLevel != s.lastLevel {
		if st.CurrentLevel > s.lastLevel {
			if err := s.notifier.LevelReached(ctx, st.CurrentLevel, st); err != nil {
				s.logger.Error("Failed to send level notification", slog.String("level", st.CurrentLevel.String()), slog.Any("error", err))
				return
			}
		}
		s.lastLevel = st.CurrentLevel
	}
}
