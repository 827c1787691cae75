// internal/scheduler/notifier.go
package scheduler

import (
	"context"
	"log/slog"

	"go_nocontact_keep/internal/model"
)

// LogNotifier は通知をログに書き出すだけの Notifier です
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("component", "notifier"))}
}

func (n *LogNotifier) StreakMilestone(ctx context.Context, days int, st model.ProgressionState) error {
	n.logger.InfoContext(ctx, "Streak milestone reached",
		slog.Int("days", days),
		slog.String("ex_partner_name", st.ExPartnerName),
	)
	return nil
}

func (n *LogNotifier) LevelReached(ctx context.Context, level model.HealingLevel, st model.ProgressionState) error {
	n.logger.InfoContext(ctx, "New healing level reached",
		slog.String("level", level.String()),
		slog.String("title", level.Info().Title),
		slog.Float64("bonus_days", st.BonusDays),
	)
	return nil
}
