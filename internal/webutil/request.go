// internal/webutil/request.go
package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go_nocontact_keep/internal/model"
)

// DecodeJSONBody はリクエストボディをデコードします (未知のフィールドはエラー)
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst, false)
}

// DecodeOptionalJSONBody は空のボディを許可します (dst はゼロ値のまま)
func DecodeOptionalJSONBody(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst, true)
}

func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return nil
		}
		return invalidBody(model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		slog.Debug("Error decoding JSON body", "error", err)
		return invalidBody(err)
	}
	return nil
}

func invalidBody(err error) error {
	return model.NewAppError("INVALID_JSON", "リクエストボディの形式が正しくありません。", "", errors.Join(model.ErrInvalidInput, err))
}

// ParseDate は "2006-01-02" 形式の日付を UTC の日付として解釈します。空なら fallback を返します
func ParseDate(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, model.NewAppError("VALIDATION_ERROR", "dateはYYYY-MM-DD形式で入力してください。", "date", errors.Join(model.ErrInvalidInput, err))
	}
	return t, nil
}
