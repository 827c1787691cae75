// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用
)

// 永続化まわりの失敗の種類。いずれもストレージ/IO の失敗を表します
var (
	ErrSaveFailed      = errors.New("save failed")
	ErrFetchFailed     = errors.New("fetch failed")
	ErrDataIntegrity   = errors.New("data integrity error")
	ErrMigrationFailed = errors.New("migration failed")
)

// StorageError は ReconciliationService の境界で返されるエラーです。
// errors.Is(err, ErrSaveFailed) のように種類で判定できます。
type StorageError struct {
	Kind error  // ErrSaveFailed / ErrFetchFailed / ErrDataIntegrity / ErrMigrationFailed
	Op   string // 失敗した操作名
	Err  error
}

func NewStorageError(kind error, op string, err error) *StorageError {
	return &StorageError{Kind: kind, Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == e.Kind
}

// ErrorDetail はAPIエラーレスポンスの中身です
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はクライアントに返す情報と根本原因のエラーを保持します
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Code, e.Detail.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
