package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roamio/backupd/internal/api/request"
	"github.com/roamio/backupd/internal/api/response"
	"github.com/roamio/backupd/internal/core"
	"github.com/roamio/backupd/internal/model"
	"github.com/roamio/backupd/internal/store"
)

// maxUploadMemory is the in-memory limit for multipart parsing; larger
// uploads spill to temp files that are removed after the request.
const maxUploadMemory = 32 << 20

type Backup struct {
	backups *core.BackupService
	restore *core.RestoreService
}

func NewBackup(backups *core.BackupService, restore *core.RestoreService) *Backup {
	return &Backup{backups: backups, restore: restore}
}

func (h *Backup) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.backups.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteSuccess(w, http.StatusOK, entries)
}

func (h *Backup) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backups.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteSuccess(w, http.StatusOK, stats)
}

func (h *Backup) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBackup
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.backups.Create(r.Context(), req.Type, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusCreated, map[string]any{
		"id":              result.Entry.ID,
		"filename":        result.Entry.Filename,
		"size":            result.Entry.SizeBytes,
		"total_documents": result.Entry.TotalDocuments,
	})
}

func (h *Backup) Download(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, blob, err := h.backups.Download(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entry.Filename))
	w.Write(blob)
}

func (h *Backup) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.restore.FromCatalog(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, result)
}

func (h *Backup) UploadRestore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}
	// Spilled temp files are removed on every exit path.
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("backup")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "missing backup file")
		return
	}
	defer file.Close()

	if !isJSONUpload(header) {
		response.WriteError(w, http.StatusBadRequest, "backup file must be JSON")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "read backup file: "+err.Error())
		return
	}

	result, err := h.restore.FromUpload(r.Context(), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteSuccess(w, http.StatusOK, result)
}

func (h *Backup) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.backups.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteMessage(w, http.StatusOK, "backup deleted")
}

func isJSONUpload(header *multipart.FileHeader) bool {
	if strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
		return true
	}
	// Content-Type may carry parameters, e.g. "application/json; charset=utf-8".
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// writeServiceError maps service errors onto the HTTP error taxonomy.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidFormat):
		response.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
