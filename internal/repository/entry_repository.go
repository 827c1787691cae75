// internal/repository/entry_repository.go
package repository

import (
	"context"
	"fmt"

	"go_nocontact_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryRepository はレコードに紐づく子コレクション (再発日/パワーアクション/チェックイン/バッジ) を扱います
type EntryRepository interface {
	FindByRecord(ctx context.Context, db *gorm.DB, recordID uuid.UUID) (*model.Entries, error)
	CreateRelapse(ctx context.Context, tx *gorm.DB, entry *model.RelapseEntry) error
	CreatePowerAction(ctx context.Context, tx *gorm.DB, entry *model.PowerActionEntry) error
	SaveCheckIn(ctx context.Context, tx *gorm.DB, entry *model.CheckInEntry) error // EntryID で upsert
	CreateBadge(ctx context.Context, tx *gorm.DB, entry *model.BadgeEntry) error
	// Update は補正済みの子行 (任意のエントリ型のポインタ) を主キーで保存します
	Update(ctx context.Context, tx *gorm.DB, entry interface{}) error
	// DeleteByIDs は entryModel (例: &model.CheckInEntry{}) のテーブルから指定行を削除します
	DeleteByIDs(ctx context.Context, tx *gorm.DB, entryModel interface{}, entryIDs []uuid.UUID) error
	DeleteByRecords(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error
	DeleteOrphans(ctx context.Context, tx *gorm.DB) (int64, error) // 親レコードが存在しない行を削除
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type gormEntryRepository struct{}

func NewGormEntryRepository() EntryRepository {
	return &gormEntryRepository{}
}

func entryModels() []interface{} {
	return []interface{}{
		&model.RelapseEntry{},
		&model.PowerActionEntry{},
		&model.CheckInEntry{},
		&model.BadgeEntry{},
	}
}

func (r *gormEntryRepository) FindByRecord(ctx context.Context, db *gorm.DB, recordID uuid.UUID) (*model.Entries, error) {
	q := db.WithContext(ctx)
	entries := &model.Entries{}
	if err := q.Where("record_id = ?", recordID).Order("date ASC").Find(&entries.Relapses).Error; err != nil {
		return nil, fmt.Errorf("gormEntryRepository.FindByRecord relapses: %w", err)
	}
	if err := q.Where("record_id = ?", recordID).Order("date ASC").Order("created_at ASC").Find(&entries.PowerActions).Error; err != nil {
		return nil, fmt.Errorf("gormEntryRepository.FindByRecord power actions: %w", err)
	}
	if err := q.Where("record_id = ?", recordID).Order("date ASC").Find(&entries.CheckIns).Error; err != nil {
		return nil, fmt.Errorf("gormEntryRepository.FindByRecord check-ins: %w", err)
	}
	if err := q.Where("record_id = ?", recordID).Order("earned_date ASC").Find(&entries.Badges).Error; err != nil {
		return nil, fmt.Errorf("gormEntryRepository.FindByRecord badges: %w", err)
	}
	return entries, nil
}

func (r *gormEntryRepository) CreateRelapse(ctx context.Context, tx *gorm.DB, entry *model.RelapseEntry) error {
	return r.create(ctx, tx, "CreateRelapse", entry)
}

func (r *gormEntryRepository) CreatePowerAction(ctx context.Context, tx *gorm.DB, entry *model.PowerActionEntry) error {
	return r.create(ctx, tx, "CreatePowerAction", entry)
}

func (r *gormEntryRepository) CreateBadge(ctx context.Context, tx *gorm.DB, entry *model.BadgeEntry) error {
	return r.create(ctx, tx, "CreateBadge", entry)
}

func (r *gormEntryRepository) create(ctx context.Context, tx *gorm.DB, op string, entry interface{}) error {
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("gormEntryRepository.%s: %w", op, model.ErrConflict)
		}
		return fmt.Errorf("gormEntryRepository.%s: %w", op, err)
	}
	return nil
}

func (r *gormEntryRepository) SaveCheckIn(ctx context.Context, tx *gorm.DB, entry *model.CheckInEntry) error {
	if err := tx.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("gormEntryRepository.SaveCheckIn: %w", err)
	}
	return nil
}

func (r *gormEntryRepository) Update(ctx context.Context, tx *gorm.DB, entry interface{}) error {
	if err := tx.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("gormEntryRepository.Update: %w", err)
	}
	return nil
}

func (r *gormEntryRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, entryModel interface{}, entryIDs []uuid.UUID) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("entry_id IN ?", entryIDs).Delete(entryModel).Error; err != nil {
		return fmt.Errorf("gormEntryRepository.DeleteByIDs: %w", err)
	}
	return nil
}

func (r *gormEntryRepository) DeleteByRecords(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error {
	if len(recordIDs) == 0 {
		return nil
	}
	for _, m := range entryModels() {
		if err := tx.WithContext(ctx).Where("record_id IN ?", recordIDs).Delete(m).Error; err != nil {
			return fmt.Errorf("gormEntryRepository.DeleteByRecords: %w", err)
		}
	}
	return nil
}

func (r *gormEntryRepository) DeleteOrphans(ctx context.Context, tx *gorm.DB) (int64, error) {
	var total int64
	for _, m := range entryModels() {
		parents := tx.Session(&gorm.Session{NewDB: true}).Model(&model.ProgressRecord{}).Select("record_id")
		result := tx.WithContext(ctx).Where("record_id NOT IN (?)", parents).Delete(m)
		if result.Error != nil {
			return total, fmt.Errorf("gormEntryRepository.DeleteOrphans: %w", result.Error)
		}
		total += result.RowsAffected
	}
	return total, nil
}

func (r *gormEntryRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	for _, m := range entryModels() {
		if err := tx.WithContext(ctx).Where("1 = 1").Delete(m).Error; err != nil {
			return fmt.Errorf("gormEntryRepository.DeleteAll: %w", err)
		}
	}
	return nil
}
