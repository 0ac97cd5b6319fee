package handler

import (
	"encoding/json"
	"net/http"

	"notable/internal/auth"
	"notable/internal/note"
)

type LabelHandler struct {
	Catalog *note.Labels
	Svc     *note.Service
}

func toLabelDTOs(labels []note.Label) []labelDTO {
	out := make([]labelDTO, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelDTO{ID: l.ID, Name: l.Name, Color: l.Color})
	}
	return out
}

func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	labels, err := h.Catalog.List(r.Context(), uid)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLabelDTOs(labels))
}

// ListUsed returns only labels attached to at least one note; the filter UI
// is built from this, not from List.
func (h *LabelHandler) ListUsed(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	labels, err := h.Catalog.ListUsed(r.Context(), uid)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLabelDTOs(labels))
}

type createLabelReq struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createLabelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	l, err := h.Catalog.Create(r.Context(), uid, req.Name, req.Color)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, labelDTO{ID: l.ID, Name: l.Name, Color: l.Color})
}

type updateLabelReq struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (h *LabelHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req updateLabelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	l, err := h.Catalog.Update(r.Context(), id, uid, req.Name, req.Color)
	if err != nil {
		writeCoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labelDTO{ID: l.ID, Name: l.Name, Color: l.Color})
}

func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.Delete(r.Context(), id, uid); err != nil {
		writeCoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Notes lists the user's notes carrying one given label.
func (h *LabelHandler) Notes(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	notes, err := h.Svc.FindNotes(r.Context(), uid, note.Filter{LabelIDs: []uint64{id}})
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
