// internal/migration/migrator.go
package migration

import (
	"context"
	"fmt"
	"log/slog"

	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/repository"

	"gorm.io/gorm"
)

// CurrentVersion はレコード内容の最新スキーマバージョンです
const CurrentVersion = 1

// Step は From から From+1 へレコードを引き上げます
type Step struct {
	From  int
	Name  string
	Apply func(r *model.ProgressRecord) error
}

// Result は 1 回の Migrate の集計です
type Result struct {
	Migrated int // 引き上げて保存したレコード数
	Current  int // 既に最新だったレコード数
	Newer    int // 最新より新しいバージョン (触らない)
}

// Migrator は保存済みバージョンから CurrentVersion まで順に Step を適用します。
// 保存はすべての Step が成功した後に 1 回だけ行います。
type Migrator struct {
	records repository.RecordRepository
	steps   []Step
	target  int
	logger  *slog.Logger
}

func NewMigrator(records repository.RecordRepository, logger *slog.Logger) *Migrator {
	return newMigrator(records, logger, DefaultSteps(), CurrentVersion)
}

func newMigrator(records repository.RecordRepository, logger *slog.Logger, steps []Step, target int) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{records: records, steps: steps, target: target, logger: logger}
}

// DefaultSteps は既知の移行ステップ一覧 (From の昇順) です
func DefaultSteps() []Step {
	return []Step{
		{From: 0, Name: "normalize_level_and_counters", Apply: normalizeLevelAndCounters},
	}
}

// Migrate は全レコードを最新バージョンへ引き上げます。
// 失敗した場合は ErrMigrationFailed 種別の *model.StorageError を返します。
func (m *Migrator) Migrate(ctx context.Context, db *gorm.DB) (Result, error) {
	const op = "Migrator.Migrate"
	var res Result

	records, err := m.records.List(ctx, db)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to list records for migration", slog.Any("error", err))
		return res, model.NewStorageError(model.ErrMigrationFailed, op, err)
	}

	for _, rec := range records {
		logger := m.logger.With(slog.String("record_id", rec.RecordID.String()), slog.Int("stored_version", rec.SchemaVersion))
		switch {
		case rec.SchemaVersion == m.target:
			res.Current++
			continue
		case rec.SchemaVersion > m.target:
			// ダウングレードはしない
			logger.WarnContext(ctx, "Record schema is newer than this build, leaving untouched", slog.Int("current_version", m.target))
			res.Newer++
			continue
		}

		upgraded := *rec
		if err := m.apply(&upgraded); err != nil {
			logger.ErrorContext(ctx, "Migration step failed", slog.Any("error", err))
			return res, model.NewStorageError(model.ErrMigrationFailed, op, err)
		}
		upgraded.SchemaVersion = m.target

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return m.records.Save(ctx, tx, &upgraded)
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to persist migrated record", slog.Any("error", err))
			return res, model.NewStorageError(model.ErrMigrationFailed, op, err)
		}
		*rec = upgraded
		res.Migrated++
		logger.InfoContext(ctx, "Record migrated", slog.Int("new_version", m.target))
	}
	return res, nil
}

// apply は r の現在バージョンから target までの Step をメモリ上で順に適用します
func (m *Migrator) apply(r *model.ProgressRecord) error {
	version := r.SchemaVersion
	if version < 0 {
		version = 0
	}
	for version < m.target {
		step, ok := m.stepFrom(version)
		if !ok {
			return fmt.Errorf("no migration step from version %d", version)
		}
		if err := step.Apply(r); err != nil {
			return fmt.Errorf("step %q (%d -> %d): %w", step.Name, step.From, step.From+1, err)
		}
		version++
	}
	return nil
}

func (m *Migrator) stepFrom(version int) (Step, bool) {
	for _, s := range m.steps {
		if s.From == version {
			return s, true
		}
	}
	return Step{}, false
}

// 0 -> 1: レベル表現を名前に揃え、カウンタを 0 以上に丸める
func normalizeLevelAndCounters(r *model.ProgressRecord) error {
	r.CurrentLevelRaw = model.LevelFromRaw(r.CurrentLevelRaw).String()
	if r.BonusDays < 0 {
		r.BonusDays = 0
	}
	if r.LifetimeBonusDays < 0 {
		r.LifetimeBonusDays = 0
	}
	if r.RelapseCount < 0 {
		r.RelapseCount = 0
	}
	if r.MaxStreak < 0 {
		r.MaxStreak = 0
	}
	return nil
}
