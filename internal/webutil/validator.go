// internal/webutil/validator.go
package webutil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go_nocontact_keep/internal/model"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

var fieldNameTranslations = map[string]string{
	"type": "パワーアクションの種類",
	"date": "日付",
	"note": "メモ",
	"mood": "気分",
	"urge": "衝動",
}

// Validator はリクエストDTOの検証器です。ハンドラに注入して使います
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() (*Validator, error) {
	v := validator.New()

	// JSONタグからフィールド名を取得するように設定
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("power_action", func(fl validator.FieldLevel) bool {
		_, ok := model.ParsePowerAction(fl.Field().String())
		return ok
	}); err != nil {
		return nil, fmt.Errorf("register power_action validation: %w", err)
	}

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	trans, found := uni.GetTranslator("ja")
	if !found {
		return nil, errors.New("translator not found")
	}
	if err := ja_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	// フィールド名を日本語にして個別のメッセージを上書き
	register := func(tag, msg string) error {
		return v.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fieldLabel(fe.Field()), fe.Param())
			return t
		})
	}
	messages := map[string]string{
		"required":     "{0}は必須項目です。",
		"max":          "{0}は{1}文字以下で入力してください。",
		"power_action": "{0}が不正です。",
		"datetime":     "{0}はYYYY-MM-DD形式で入力してください。",
	}
	for tag, msg := range messages {
		if err := register(tag, msg); err != nil {
			return nil, err
		}
	}

	return &Validator{validate: v, trans: trans}, nil
}

func fieldLabel(field string) string {
	if label, ok := fieldNameTranslations[field]; ok {
		return label
	}
	return field
}

// Struct は s を検証し、失敗時は VALIDATION_ERROR の *model.AppError を返します
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationErrorResponse(verrs, v.trans)
	}
	return model.NewAppError("VALIDATION_ERROR", err.Error(), "", model.ErrInvalidInput)
}
