package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/common"
	"github.com/hirestack/resume-intake/internal/derive"
	"github.com/hirestack/resume-intake/internal/export"
	"github.com/hirestack/resume-intake/internal/pipeline"
	"github.com/hirestack/resume-intake/internal/reconcile"
	"github.com/hirestack/resume-intake/internal/repository"
)

// maxUploadBytes bounds a single resume upload.
const maxUploadBytes = 20 << 20

// Handler serves the resume intake HTTP API.
type Handler struct {
	logger    *slog.Logger
	processor *pipeline.Processor
	store     repository.CandidateStore // nil disables upload_to_db
	exporter  *export.Service
}

func NewHandler(processor *pipeline.Processor, store repository.CandidateStore, exporter *export.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, processor: processor, store: store, exporter: exporter}
}

// Routes mounts every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload_resume", h.handleUpload)
	mux.HandleFunc("GET /export", h.handleExport)
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	return mux
}

type uploadResponse struct {
	Status    string            `json:"status"`
	Extracted map[string]string `json:"extracted"`
	Stored    bool              `json:"stored,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "a resume file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	rec, err := h.processor.Process(r.Context(), pipeline.Document{
		Data:      data,
		MediaType: header.Header.Get("Content-Type"),
		Filename:  header.Filename,
		SourceTag: r.FormValue("cv_source"),
	})
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedMediaType) {
			h.writeError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		h.logger.Error("resume processing failed", slog.String("file", header.Filename), slog.Any("error", err))
		h.writeError(w, http.StatusUnprocessableEntity, "resume could not be processed")
		return
	}

	// A caller-supplied mobile number overrides whatever the document said.
	if mobile := r.FormValue("mobile_number"); mobile != "" {
		cleaned := derive.CleanMobile(mobile)
		if cleaned != constants.NotAvailable {
			rec.Set("mobile_number", cleaned)
			rec.Set("cv_mobile_number", cleaned)
		}
	}

	extracted, err := rec.FilterToSchema(reconcile.APIColumns(), reconcile.OmitMissing)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "no recognizable fields in resume")
		return
	}

	resp := uploadResponse{Status: "success", Extracted: extracted.Fields()}

	if r.FormValue("upload_to_db") == "true" {
		if h.store == nil {
			h.writeError(w, http.StatusServiceUnavailable, "database storage is not configured")
			return
		}
		if err := h.persist(r, rec); err != nil {
			h.logger.Error("candidate persist failed", slog.String("file", header.Filename), slog.Any("error", err))
			h.writeError(w, http.StatusInternalServerError, "could not store candidate")
			return
		}
		resp.Stored = true
	}

	h.logger.Info("resume processed",
		slog.String("file", header.Filename),
		slog.Int("fields", extracted.Len()),
		slog.Bool("stored", resp.Stored),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) persist(r *http.Request, rec reconcile.Record) error {
	columns, err := h.store.Columns(r.Context())
	if err != nil {
		return err
	}
	row, err := rec.FilterToSchema(columns, reconcile.SentinelMissing)
	if err != nil {
		return err
	}
	if rec.Has("mobile_number") {
		return h.store.Upsert(r.Context(), row.Fields(), "mobile_number")
	}
	return h.store.Insert(r.Context(), row.Fields())
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	data, err := h.exporter.ExportCandidatesXLSX(r.Context())
	if err != nil {
		h.logger.Error("export failed", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encoding failed", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, errorResponse{Status: "error", Message: msg})
}
