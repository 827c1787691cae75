// internal/handlers/progress_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/service"
	"go_nocontact_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
)

// 保存に失敗した変更を返すときの警告文
const notPersistedWarning = "変更はこの端末のメモリ上にのみ保持されています。保存は次回の整合性チェックで再試行されます。"

type ProgressHandler struct {
	service   service.ReconciliationService
	validator *webutil.Validator
	clock     service.Clock
	logger    *slog.Logger
}

func NewProgressHandler(s service.ReconciliationService, v *webutil.Validator, clock service.Clock, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = service.SystemClock()
	}
	return &ProgressHandler{
		service:   s,
		validator: v,
		clock:     clock,
		logger:    logger,
	}
}

// Routes は /api/v1 配下のルートを登録します
func (h *ProgressHandler) Routes(r chi.Router) {
	r.Route("/progress", func(r chi.Router) {
		r.Get("/", h.GetProgress)
		r.Delete("/", h.DeleteProgress)
	})
	r.Post("/relapses", h.PostRelapse)
	r.Post("/power-actions", h.PostPowerAction)
	r.Post("/check-ins", h.PostCheckIn)
	r.Post("/badges/evaluate", h.PostEvaluateBadges)
	r.Post("/integrity-check", h.PostIntegrityCheck)
}

// GetProgress は現在の状態と派生値を返します
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	st := h.service.Snapshot()
	webutil.RespondWithJSON(w, http.StatusOK, model.NewProgressResponse(st, h.clock.Now()))
}

func (h *ProgressHandler) PostRelapse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostRelapse"))

	var req model.RecordRelapseRequest
	if err := webutil.DecodeOptionalJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	now := h.clock.Now()
	date, err := webutil.ParseDate(req.Date, now)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	st, err := h.service.RecordRelapse(r.Context(), date)
	h.respondMutation(w, logger, st, err)
}

func (h *ProgressHandler) PostPowerAction(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostPowerAction"))

	var req model.RecordPowerActionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	actionType, _ := model.ParsePowerAction(req.Type) // validator で検証済み
	date, err := webutil.ParseDate(req.Date, h.clock.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	st, err := h.service.RecordPowerAction(r.Context(), actionType, date, req.Note)
	h.respondMutation(w, logger.With(slog.String("type", actionType.String())), st, err)
}

func (h *ProgressHandler) PostCheckIn(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostCheckIn"))

	var req model.RecordCheckInRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	date, err := webutil.ParseDate(req.Date, h.clock.Now())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	// 範囲外の mood/urge は拒否せずサービス側で丸める
	st, err := h.service.RecordCheckIn(r.Context(), *req.Mood, *req.Urge, req.Note, date)
	h.respondMutation(w, logger, st, err)
}

func (h *ProgressHandler) PostEvaluateBadges(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostEvaluateBadges"))
	st, err := h.service.EvaluateBadges(r.Context())
	h.respondMutation(w, logger, st, err)
}

func (h *ProgressHandler) PostIntegrityCheck(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostIntegrityCheck"))
	report, err := h.service.IntegrityCheck(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Integrity check requested", slog.Int("records_removed", report.RecordsRemoved))
	webutil.RespondWithJSON(w, http.StatusOK, report)
}

// DeleteProgress は全データを消去し、新しいプログラムを今日から始めます
func (h *ProgressHandler) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteProgress"))
	if err := h.service.EraseAll(r.Context()); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	err := h.service.Save(r.Context())
	h.respondMutation(w, logger, h.service.Snapshot(), err)
}

// respondMutation は変更後の状態を返します。保存の失敗は 200 + persisted:false で伝えます
func (h *ProgressHandler) respondMutation(w http.ResponseWriter, logger *slog.Logger, st model.ProgressionState, err error) {
	resp := model.NewProgressResponse(st, h.clock.Now())
	if err != nil {
		var storageErr *model.StorageError
		if !errors.As(err, &storageErr) {
			logger.Error("Unexpected error from service", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
			return
		}
		logger.Warn("Change applied in memory but not persisted", slog.Any("error", err))
		resp.Persisted = false
		resp.Warning = notPersistedWarning
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
