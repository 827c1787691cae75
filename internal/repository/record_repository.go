// internal/repository/record_repository.go
package repository

import (
	"context"
	"fmt"

	"go_nocontact_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordRepository は progress_records テーブルを扱います。
// 保存先には論理的に 1 件だけ存在する想定ですが、重複の整理はサービス層が行います。
type RecordRepository interface {
	List(ctx context.Context, db *gorm.DB) ([]*model.ProgressRecord, error) // 古い順 (program_start_date, created_at, record_id)
	Create(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error
	Save(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error
	Delete(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type gormRecordRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormRecordRepository() RecordRepository {
	return &gormRecordRepository{}
}

func (r *gormRecordRepository) List(ctx context.Context, db *gorm.DB) ([]*model.ProgressRecord, error) {
	var records []*model.ProgressRecord
	result := db.WithContext(ctx).
		Order("program_start_date ASC").
		Order("created_at ASC").
		Order("record_id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("gormRecordRepository.List: %w", result.Error)
	}
	return records, nil
}

func (r *gormRecordRepository) Create(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error {
	// RecordID はサービス層で設定済み想定
	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("gormRecordRepository.Create: %w", model.ErrConflict)
		}
		return fmt.Errorf("gormRecordRepository.Create: %w", err)
	}
	return nil
}

func (r *gormRecordRepository) Save(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error {
	// Saveは主キーに基づいてUpdate or Insertを行う
	if err := tx.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("gormRecordRepository.Save: %w", err)
	}
	return nil
}

func (r *gormRecordRepository) Delete(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error {
	if len(recordIDs) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Where("record_id IN ?", recordIDs).Delete(&model.ProgressRecord{}).Error; err != nil {
		return fmt.Errorf("gormRecordRepository.Delete: %w", err)
	}
	return nil
}

func (r *gormRecordRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(&model.ProgressRecord{}).Error; err != nil {
		return fmt.Errorf("gormRecordRepository.DeleteAll: %w", err)
	}
	return nil
}
