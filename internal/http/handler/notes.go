package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"notable/internal/auth"
	"notable/internal/note"
	"notable/internal/upload"

	"github.com/go-chi/chi/v5"
)

type NoteHandler struct {
	Svc   *note.Service
	Files *upload.Store
}

type labelDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type noteDTO struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Attachment *string    `json:"attachment"`
	Labels     []labelDTO `json:"labels"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toNoteDTO(n note.NoteWithLabels) noteDTO {
	labels := make([]labelDTO, 0, len(n.Labels))
	for _, l := range n.Labels {
		labels = append(labels, labelDTO{ID: l.ID, Name: l.Name, Color: l.Color})
	}
	return noteDTO{
		ID:         n.ID,
		UserID:     n.UserID,
		Title:      n.Title,
		Content:    n.Content,
		Attachment: n.Attachment,
		Labels:     labels,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// List serves the filtered note view: optional q= substring and labels=
// comma-separated label ids (a note must carry all of them).
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	f := note.Filter{Query: r.URL.Query().Get("q")}
	if raw := strings.TrimSpace(r.URL.Query().Get("labels")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				http.Error(w, "invalid labels param", http.StatusBadRequest)
				return
			}
			f.LabelIDs = append(f.LabelIDs, id)
		}
	}

	notes, err := h.Svc.FindNotes(r.Context(), uid, f)
	if err != nil {
		writeCoreErr(w, err)
		return
	}

	out := make([]noteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteDTO(n))
	}
	writeJSON(w, http.StatusOK, out)
}

type noteBodyReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// parseNoteBody accepts either a JSON body or a multipart form with an
// optional "attachment" file. A saved file's path comes back as the second
// value; nil means no file was sent.
func (h *NoteHandler) parseNoteBody(w http.ResponseWriter, r *http.Request) (*noteBodyReq, *string, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return nil, nil, false
		}
		req := &noteBodyReq{
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
		}

		file, header, err := r.FormFile("attachment")
		if err == http.ErrMissingFile {
			return req, nil, true
		}
		if err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return nil, nil, false
		}
		defer file.Close()

		path, err := h.Files.Save(header.Filename, file)
		if err == upload.ErrTooLarge {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return nil, nil, false
		}
		if err != nil {
			http.Error(w, "server error", http.StatusInternalServerError)
			return nil, nil, false
		}
		return req, &path, true
	}

	var req noteBodyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return nil, nil, false
	}
	return &req, nil, true
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	req, attachment, ok := h.parseNoteBody(w, r)
	if !ok {
		return
	}

	n, err := h.Svc.Create(r.Context(), uid, note.CreateInput{
		Title:      req.Title,
		Content:    req.Content,
		Attachment: attachment,
	})
	if err != nil {
		if attachment != nil {
			_ = h.Files.Remove(*attachment)
		}
		writeCoreErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteDTO(note.NoteWithLabels{Note: *n, Labels: []note.Label{}}))
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	n, err := h.Svc.Get(r.Context(), id, uid)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(*n))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	req, attachment, ok := h.parseNoteBody(w, r)
	if !ok {
		return
	}

	n, err := h.Svc.Update(r.Context(), id, uid, note.UpdateInput{
		Title:      req.Title,
		Content:    req.Content,
		Attachment: attachment,
	})
	if err != nil {
		// A saved file for a failed update is orphaned; remove it now.
		if attachment != nil {
			_ = h.Files.Remove(*attachment)
		}
		writeCoreErr(w, err)
		return
	}

	updated, err := h.Svc.Get(r.Context(), n.ID, uid)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(*updated))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), id, uid); err != nil {
		writeCoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setLabelsReq struct {
	LabelIDs []uint64 `json:"label_ids"`
}

func (h *NoteHandler) SetLabels(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req setLabelsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.Svc.SetLabels(r.Context(), id, uid, req.LabelIDs); err != nil {
		writeCoreErr(w, err)
		return
	}

	n, err := h.Svc.Get(r.Context(), id, uid)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteDTO(*n))
}

func (h *NoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	f, err := h.Svc.Export(r.Context(), id, uid)
	if err != nil {
		writeCoreErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	_, _ = w.Write([]byte(f.Body))
}

func idParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
