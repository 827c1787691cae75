// internal/service/reconciliation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go_nocontact_keep/internal/config"
	"go_nocontact_keep/internal/middleware"
	"go_nocontact_keep/internal/migration"
	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/progression"
	"go_nocontact_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotHydrated は保存先のレコードをまだメモリに読み込めていないことを表します。
// この間は既存のレコードを上書きしません
var ErrNotHydrated = errors.New("durable record not loaded")

// BootstrapOptions は保存先にレコードが無い場合の初期化方法です
type BootstrapOptions struct {
	SeedNewUser   bool   // true ならプログラム/レベル/断絶の開始日を今日にする
	ExPartnerName string // 空なら設定値
	SkipCreate    bool   // true なら保存先が空でもレコードを作らず RecordMissing を返す
}

// IntegrityReport は 1 回の整合性チェック (Bootstrap を含む) で行った修正の集計です
type IntegrityReport struct {
	Migrated          int            `json:"migrated"`
	RecordsRemoved    int            `json:"records_removed"`
	OrphansRemoved    int64          `json:"orphans_removed"`
	DuplicatesRemoved map[string]int `json:"duplicates_removed,omitempty"`
	ClampedFields     []string       `json:"clamped_fields,omitempty"`
	RowsCorrected     int            `json:"rows_corrected"`
	RowsSkipped       int            `json:"rows_skipped"`
	RowsRestored      int            `json:"rows_restored"`
	RecordCreated     bool           `json:"record_created"`
	RecordMissing     bool           `json:"record_missing,omitempty"`
	LevelAdvanced     bool           `json:"level_advanced"`
}

// ReconciliationService はメモリ上の進捗状態と、保存先の唯一のレコードを同期します。
// 保存に失敗してもメモリ上の状態はそのまま有効で、失敗は *model.StorageError として返します。
type ReconciliationService interface {
	Bootstrap(ctx context.Context, opts BootstrapOptions) (*IntegrityReport, error)
	Save(ctx context.Context) error
	RecordRelapse(ctx context.Context, date time.Time) (model.ProgressionState, error)
	RecordPowerAction(ctx context.Context, t model.PowerActionType, date time.Time, note string) (model.ProgressionState, error)
	RecordCheckIn(ctx context.Context, mood, urge int, note string, date time.Time) (model.ProgressionState, error)
	EvaluateBadges(ctx context.Context) (model.ProgressionState, error)
	AdvanceLevel(ctx context.Context) (model.ProgressionState, bool, error)
	IntegrityCheck(ctx context.Context) (*IntegrityReport, error)
	EraseAll(ctx context.Context) error
	Snapshot() model.ProgressionState
}

type reconciliationService struct {
	db       *gorm.DB
	records  repository.RecordRepository
	entries  repository.EntryRepository
	migrator *migration.Migrator
	engine   progression.Engine
	clock    Clock
	cfg      *config.Config

	// 書き込みは mu で 1 つに直列化する
	mu           sync.Mutex
	state        model.ProgressionState
	bootstrapped bool
}

func NewReconciliationService(
	db *gorm.DB,
	records repository.RecordRepository,
	entries repository.EntryRepository,
	migrator *migration.Migrator,
	engine progression.Engine,
	clock Clock,
	cfg *config.Config,
) ReconciliationService {
	if clock == nil {
		clock = SystemClock()
	}
	s := &reconciliationService{
		db:       db,
		records:  records,
		entries:  entries,
		migrator: migrator,
		engine:   engine,
		clock:    clock,
		cfg:      cfg,
	}
	s.state = s.defaultState(clock.Now())
	return s
}

// defaultState は 0 日目の初期状態です
func (s *reconciliationService) defaultState(now time.Time) model.ProgressionState {
	st := model.NewProgressionState(now)
	if s.cfg != nil {
		if s.cfg.App.TotalProgramDays >= 1 {
			st.TotalProgramDays = s.cfg.App.TotalProgramDays
		}
		st.ExPartnerName = s.cfg.App.ExPartnerName
	}
	return st
}

func (s *reconciliationService) Snapshot() model.ProgressionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *reconciliationService) Bootstrap(ctx context.Context, opts BootstrapOptions) (*IntegrityReport, error) {
	const op = "ReconciliationService.Bootstrap"
	s.mu.Lock()
	defer s.mu.Unlock()
	logger := middleware.GetLogger(ctx).With("op", op)
	now := s.clock.Now()
	report := &IntegrityReport{}

	if err := s.migrate(ctx, report); err != nil {
		return report, err
	}

	var hydrated model.ProgressionState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, stored, err := s.reconcileTx(ctx, tx, now, report)
		if err != nil {
			return err
		}

		if rec == nil && opts.SkipCreate {
			report.RecordMissing = true
			return nil
		}
		if rec == nil {
			st := s.state.Clone()
			if opts.SeedNewUser {
				st = s.defaultState(now)
			}
			if opts.ExPartnerName != "" {
				st.ExPartnerName = opts.ExPartnerName
			}
			rec = model.NewProgressRecord(st, migration.CurrentVersion)
			ValidateRecord(rec, now)
			if err := s.records.Create(ctx, tx, rec); err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
			n, err := s.writeMissingEntries(ctx, tx, rec.RecordID, st, model.Entries{})
			if err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
			report.RowsRestored = n
			report.RecordCreated = true
			hydrated = st
			return nil
		}

		hydrated = s.hydrate(rec, stored, now, report)
		if err := s.records.Save(ctx, tx, rec); err != nil {
			return model.NewStorageError(model.ErrSaveFailed, op, err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Bootstrap failed, continuing with in-memory state", "error", err)
		return report, asStorageError(model.ErrSaveFailed, op, err)
	}

	if report.RecordMissing {
		logger.Info("No durable record found, nothing created")
		return report, nil
	}

	s.state = hydrated
	s.bootstrapped = true
	logger.Info("Bootstrap completed",
		"record_created", report.RecordCreated,
		"records_removed", report.RecordsRemoved,
		"orphans_removed", report.OrphansRemoved,
		"level_advanced", report.LevelAdvanced,
		"current_level", hydrated.CurrentLevel.String(),
	)
	return report, nil
}

func (s *reconciliationService) IntegrityCheck(ctx context.Context) (*IntegrityReport, error) {
	const op = "ReconciliationService.IntegrityCheck"
	s.mu.Lock()
	defer s.mu.Unlock()
	logger := middleware.GetLogger(ctx).With("op", op)
	now := s.clock.Now()
	report := &IntegrityReport{}

	if err := s.migrate(ctx, report); err != nil {
		return report, err
	}

	var recovered *model.ProgressionState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, stored, err := s.reconcileTx(ctx, tx, now, report)
		if err != nil {
			return err
		}
		if rec == nil {
			// 保存先が空ならメモリ上の状態から作り直す
			rec = model.NewProgressRecord(s.state, migration.CurrentVersion)
			ValidateRecord(rec, now)
			if err := s.records.Create(ctx, tx, rec); err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
			report.RecordCreated = true
		} else if s.bootstrapped {
			rec.ApplyState(s.state)
			ValidateRecord(rec, now)
		} else {
			// Bootstrap が失敗していた場合は保存先が正。ここで読み込み直す
			st := s.hydrate(rec, stored, now, report)
			recovered = &st
		}
		if s.bootstrapped || report.RecordCreated {
			n, err := s.writeMissingEntries(ctx, tx, rec.RecordID, s.state, stored)
			if err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
			report.RowsRestored = n
		}
		if err := s.records.Save(ctx, tx, rec); err != nil {
			return model.NewStorageError(model.ErrSaveFailed, op, err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Integrity check failed", "error", err)
		return report, asStorageError(model.ErrDataIntegrity, op, err)
	}
	if recovered != nil {
		s.state = *recovered
		logger.Warn("Progress reloaded from durable record after failed bootstrap",
			"current_level", recovered.CurrentLevel.String())
	}
	s.bootstrapped = true

	logger.Info("Integrity check completed",
		"records_removed", report.RecordsRemoved,
		"orphans_removed", report.OrphansRemoved,
		"duplicates_removed", report.DuplicatesRemoved,
		"clamped_fields", report.ClampedFields,
		"rows_restored", report.RowsRestored,
	)
	return report, nil
}

func (s *reconciliationService) Save(ctx context.Context) error {
	const op = "ReconciliationService.Save"
	s.mu.Lock()
	defer s.mu.Unlock()
	logger := middleware.GetLogger(ctx).With("op", op)
	now := s.clock.Now()

	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := s.records.List(ctx, tx)
		if err != nil {
			return model.NewStorageError(model.ErrFetchFailed, op, err)
		}
		if len(records) > 0 && !s.bootstrapped {
			return model.NewStorageError(model.ErrDataIntegrity, op, ErrNotHydrated)
		}
		rec, _, err := s.enforceSingle(ctx, tx, records)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = model.NewProgressRecord(s.state, migration.CurrentVersion)
			ValidateRecord(rec, now)
			if err := s.records.Create(ctx, tx, rec); err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
			if _, err := s.writeMissingEntries(ctx, tx, rec.RecordID, s.state, model.Entries{}); err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
			logger.Info("No durable record found, created a new one", "record_id", rec.RecordID)
			created = true
			return nil
		}
		rec.ApplyState(s.state)
		ValidateRecord(rec, now)
		if err := s.records.Save(ctx, tx, rec); err != nil {
			return model.NewStorageError(model.ErrSaveFailed, op, err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to save progress", "error", err)
		return asStorageError(model.ErrSaveFailed, op, err)
	}
	if created {
		s.bootstrapped = true
	}
	return nil
}

func (s *reconciliationService) RecordRelapse(ctx context.Context, date time.Time) (model.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	next, effects := s.engine.RecordRelapse(s.state, clampToNow(date, now))
	s.state = next
	err := s.persistEffects(ctx, "ReconciliationService.RecordRelapse", effects, now)
	return s.state.Clone(), err
}

func (s *reconciliationService) RecordPowerAction(ctx context.Context, t model.PowerActionType, date time.Time, note string) (model.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	next, effects := s.engine.RecordPowerAction(s.state, t, clampToNow(date, now), note)
	if len(effects) == 0 {
		middleware.GetLogger(ctx).Debug("Power action ignored (already recorded or unknown)", "type", t.String())
		return s.state.Clone(), nil
	}
	s.state = next
	err := s.persistEffects(ctx, "ReconciliationService.RecordPowerAction", effects, now)
	return s.state.Clone(), err
}

func (s *reconciliationService) RecordCheckIn(ctx context.Context, mood, urge int, note string, date time.Time) (model.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	next, effects := s.engine.RecordCheckIn(s.state, mood, urge, note, clampToNow(date, now))
	s.state = next
	err := s.persistEffects(ctx, "ReconciliationService.RecordCheckIn", effects, now)
	return s.state.Clone(), err
}

func (s *reconciliationService) EvaluateBadges(ctx context.Context) (model.ProgressionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	next, effects := s.engine.EvaluateBadges(s.state, now)
	if len(effects) == 0 {
		return s.state.Clone(), nil
	}
	s.state = next
	err := s.persistEffects(ctx, "ReconciliationService.EvaluateBadges", effects, now)
	return s.state.Clone(), err
}

// AdvanceLevel は経過日数だけでレベル条件を満たした場合に 1 段階上げます
func (s *reconciliationService) AdvanceLevel(ctx context.Context) (model.ProgressionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	next, advanced := s.engine.AdvanceLevelIfEligible(s.state, now)
	if !advanced {
		return s.state.Clone(), false, nil
	}
	s.state = next
	middleware.GetLogger(ctx).Info("Level advanced", "current_level", next.CurrentLevel.String())
	err := s.persistEffects(ctx, "ReconciliationService.AdvanceLevel", nil, now)
	return s.state.Clone(), true, err
}

// EraseAll は全レコードと子行を削除し、メモリ上の状態を 0 日目に戻します
func (s *reconciliationService) EraseAll(ctx context.Context) error {
	const op = "ReconciliationService.EraseAll"
	s.mu.Lock()
	defer s.mu.Unlock()
	logger := middleware.GetLogger(ctx).With("op", op)
	now := s.clock.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.entries.DeleteAll(ctx, tx); err != nil {
			return err
		}
		return s.records.DeleteAll(ctx, tx)
	})
	if err != nil {
		logger.Error("Failed to erase progress", "error", err)
		return model.NewStorageError(model.ErrSaveFailed, op, err)
	}
	s.state = s.defaultState(now)
	s.bootstrapped = true
	logger.Warn("All progress erased")
	return nil
}

// persistEffects はエンジンが生成した子行だけを追加し、スカラー値を更新します。
// 状態全体の再書き込みはしません。
func (s *reconciliationService) persistEffects(ctx context.Context, op string, effects []progression.Effect, now time.Time) error {
	logger := middleware.GetLogger(ctx).With("op", op)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := s.records.List(ctx, tx)
		if err != nil {
			return model.NewStorageError(model.ErrFetchFailed, op, err)
		}
		if len(records) == 0 {
			return model.NewStorageError(model.ErrFetchFailed, op, model.ErrNotFound)
		}
		if !s.bootstrapped {
			return model.NewStorageError(model.ErrDataIntegrity, op, ErrNotHydrated)
		}
		rec := records[0]
		for _, e := range effects {
			if err := s.writeEffect(ctx, tx, rec.RecordID, e); err != nil {
				return model.NewStorageError(model.ErrSaveFailed, op, err)
			}
		}
		rec.ApplyState(s.state)
		ValidateRecord(rec, now)
		if err := s.records.Save(ctx, tx, rec); err != nil {
			return model.NewStorageError(model.ErrSaveFailed, op, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("No durable record found, change kept in memory only")
		} else if errors.Is(err, ErrNotHydrated) {
			logger.Warn("Durable record not loaded yet, change kept in memory only")
		} else {
			logger.Error("Failed to persist change, continuing with in-memory state", "error", err)
		}
		return asStorageError(model.ErrSaveFailed, op, err)
	}
	logger.Debug("Change persisted", "effects", len(effects))
	return nil
}

func (s *reconciliationService) writeEffect(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, e progression.Effect) error {
	switch e.Kind {
	case progression.EffectRelapseAdded:
		return s.entries.CreateRelapse(ctx, tx, model.NewRelapseEntry(recordID, e.RelapseDate))
	case progression.EffectPowerActionAdded:
		return s.entries.CreatePowerAction(ctx, tx, model.NewPowerActionEntry(recordID, *e.PowerAction))
	case progression.EffectCheckInAdded, progression.EffectCheckInUpdated:
		return s.entries.SaveCheckIn(ctx, tx, model.NewCheckInEntry(recordID, *e.CheckIn))
	case progression.EffectBadgeAdded:
		return s.entries.CreateBadge(ctx, tx, model.NewBadgeEntry(recordID, *e.Badge))
	}
	return fmt.Errorf("unknown effect kind %q", e.Kind)
}

// hydrate は保存済みのレコードと子行から状態を組み立て、経過日数によるレベル判定を反映します
func (s *reconciliationService) hydrate(rec *model.ProgressRecord, stored model.Entries, now time.Time, report *IntegrityReport) model.ProgressionState {
	st, skipped := rec.ToState(stored)
	report.RowsSkipped = skipped
	st, report.LevelAdvanced = s.engine.AdvanceLevelIfEligible(st, now)
	rec.ApplyState(st)
	ValidateRecord(rec, now)
	return st
}

func (s *reconciliationService) migrate(ctx context.Context, report *IntegrityReport) error {
	res, err := s.migrator.Migrate(ctx, s.db)
	if err != nil {
		middleware.GetLogger(ctx).Error("Schema migration failed", "error", err)
		return err
	}
	report.Migrated = res.Migrated
	return nil
}

// reconcileTx は保存先を 1 レコードに揃え、孤立行・重複行を削除し、値を補正します。
// レコードのスカラー値の保存は呼び出し側で行います。レコードが無ければ nil を返します。
func (s *reconciliationService) reconcileTx(ctx context.Context, tx *gorm.DB, now time.Time, report *IntegrityReport) (*model.ProgressRecord, model.Entries, error) {
	const op = "ReconciliationService.reconcile"
	logger := middleware.GetLogger(ctx)

	records, err := s.records.List(ctx, tx)
	if err != nil {
		return nil, model.Entries{}, model.NewStorageError(model.ErrFetchFailed, op, err)
	}
	rec, removed, err := s.enforceSingle(ctx, tx, records)
	if err != nil {
		return nil, model.Entries{}, err
	}
	report.RecordsRemoved = removed

	orphans, err := s.entries.DeleteOrphans(ctx, tx)
	if err != nil {
		return nil, model.Entries{}, model.NewStorageError(model.ErrDataIntegrity, op, err)
	}
	report.OrphansRemoved = orphans
	if rec == nil {
		return nil, model.Entries{}, nil
	}

	found, err := s.entries.FindByRecord(ctx, tx, rec.RecordID)
	if err != nil {
		return nil, model.Entries{}, model.NewStorageError(model.ErrFetchFailed, op, err)
	}

	// 日付の正規化で重複が生まれることがあるので、補正してから重複排除する
	changed := validateEntries(found, now)
	kept, dup := dedupeEntries(*found)
	deletes := []struct {
		entry interface{}
		ids   []uuid.UUID
	}{
		{&model.RelapseEntry{}, dup.Relapses},
		{&model.PowerActionEntry{}, dup.PowerActions},
		{&model.CheckInEntry{}, dup.CheckIns},
		{&model.BadgeEntry{}, dup.Badges},
	}
	removedIDs := map[uuid.UUID]bool{}
	for _, d := range deletes {
		if err := s.entries.DeleteByIDs(ctx, tx, d.entry, d.ids); err != nil {
			return nil, model.Entries{}, model.NewStorageError(model.ErrDataIntegrity, op, err)
		}
		for _, id := range d.ids {
			removedIDs[id] = true
		}
	}
	for _, row := range changed {
		if removedIDs[entryID(row)] {
			continue
		}
		if err := s.entries.Update(ctx, tx, row); err != nil {
			return nil, model.Entries{}, model.NewStorageError(model.ErrSaveFailed, op, err)
		}
		report.RowsCorrected++
	}
	if counts := dup.counts(); len(counts) > 0 {
		report.DuplicatesRemoved = counts
		logger.Warn("Duplicate child rows removed", "record_id", rec.RecordID, "counts", counts)
	}

	report.ClampedFields = ValidateRecord(rec, now)
	if len(report.ClampedFields) > 0 {
		logger.Warn("Record values clamped", "record_id", rec.RecordID, "fields", report.ClampedFields)
	}
	return rec, kept, nil
}

// enforceSingle は最も古いレコード (List の先頭) だけを残し、他のレコードと子行を削除します
func (s *reconciliationService) enforceSingle(ctx context.Context, tx *gorm.DB, records []*model.ProgressRecord) (*model.ProgressRecord, int, error) {
	const op = "ReconciliationService.enforceSingle"
	if len(records) == 0 {
		return nil, 0, nil
	}
	keep := records[0]
	extra := records[1:]
	if len(extra) == 0 {
		return keep, 0, nil
	}

	ids := make([]uuid.UUID, 0, len(extra))
	for _, r := range extra {
		ids = append(ids, r.RecordID)
	}
	middleware.GetLogger(ctx).Warn("Multiple progress records found, keeping the earliest",
		"kept_record_id", keep.RecordID, "removed", len(ids))
	if err := s.entries.DeleteByRecords(ctx, tx, ids); err != nil {
		return nil, 0, model.NewStorageError(model.ErrDataIntegrity, op, err)
	}
	if err := s.records.Delete(ctx, tx, ids); err != nil {
		return nil, 0, model.NewStorageError(model.ErrDataIntegrity, op, err)
	}
	return keep, len(ids), nil
}

// writeMissingEntries はメモリ上にあって保存先に無い子行を書き戻します (メモリ側が正)
func (s *reconciliationService) writeMissingEntries(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, st model.ProgressionState, stored model.Entries) (int, error) {
	written := 0

	storedDays := map[time.Time]bool{}
	for _, r := range stored.Relapses {
		storedDays[model.StartOfDay(r.Date)] = true
	}
	for _, d := range st.RelapseDates {
		if storedDays[model.StartOfDay(d)] {
			continue
		}
		if err := s.entries.CreateRelapse(ctx, tx, model.NewRelapseEntry(recordID, d)); err != nil {
			return written, err
		}
		written++
	}

	storedActionIDs := map[uuid.UUID]bool{}
	storedActionTypes := map[string]bool{}
	for _, pa := range stored.PowerActions {
		storedActionIDs[pa.EntryID] = true
		if t, ok := model.ParsePowerAction(pa.ActionTypeRaw); ok {
			storedActionTypes[t.String()] = true
		}
	}
	for _, pa := range st.PowerActions {
		if storedActionIDs[pa.ID] || (!pa.Type.Repeatable() && storedActionTypes[pa.Type.String()]) {
			continue
		}
		if err := s.entries.CreatePowerAction(ctx, tx, model.NewPowerActionEntry(recordID, pa)); err != nil {
			return written, err
		}
		written++
	}

	storedCheckIns := map[time.Time]*model.CheckInEntry{}
	for _, c := range stored.CheckIns {
		storedCheckIns[model.StartOfDay(c.Date)] = c
	}
	for _, c := range st.CheckIns {
		row := model.NewCheckInEntry(recordID, c)
		if cur, ok := storedCheckIns[model.StartOfDay(c.Date)]; ok {
			if cur.Mood == c.Mood && cur.Urge == c.Urge && cur.Note == c.Note {
				continue
			}
			row = cur
			row.Mood, row.Urge, row.Note = c.Mood, c.Urge, c.Note
		}
		if err := s.entries.SaveCheckIn(ctx, tx, row); err != nil {
			return written, err
		}
		written++
	}

	storedBadges := map[string]bool{}
	for _, b := range stored.Badges {
		storedBadges[badgeKey(b.BadgeTypeRaw)] = true
	}
	for _, b := range st.Badges {
		if storedBadges[b.Type.String()] {
			continue
		}
		if err := s.entries.CreateBadge(ctx, tx, model.NewBadgeEntry(recordID, b)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func entryID(row interface{}) uuid.UUID {
	switch e := row.(type) {
	case *model.RelapseEntry:
		return e.EntryID
	case *model.PowerActionEntry:
		return e.EntryID
	case *model.CheckInEntry:
		return e.EntryID
	case *model.BadgeEntry:
		return e.EntryID
	}
	return uuid.Nil
}

// clampToNow は未来の日時とゼロ値を now に丸めます
func clampToNow(t, now time.Time) time.Time {
	if t.IsZero() || t.After(now) {
		return now
	}
	return t
}

// asStorageError は err が既に *model.StorageError ならそのまま、そうでなければ kind で包みます
func asStorageError(kind error, op string, err error) error {
	var se *model.StorageError
	if errors.As(err, &se) {
		return se
	}
	return model.NewStorageError(kind, op, err)
}
