package note

import (
	"context"
	"strings"
)

// likeEscaper keeps LIKE metacharacters in the search text literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter narrows a user's notes. A blank (or whitespace-only) Query and an
// empty LabelIDs list are both treated as absent.
type Filter struct {
	// Query is matched as a case-insensitive substring of title or content.
	Query string
	// LabelIDs restricts to notes carrying every listed label (AND).
	LabelIDs []uint64
}

// FindNotes runs in two phases. Phase one resolves the matching note ids.
// Phase two re-fetches those ids with their complete label sets, so a note
// matched through one label still comes back with all of its labels. Results
// are ordered most-recently-updated first.
func (s *Service) FindNotes(ctx context.Context, userID uint64, f Filter) ([]NoteWithLabels, error) {
	q := s.DB.WithContext(ctx).Model(&Note{}).Where("user_id = ?", userID)

	if text := strings.TrimSpace(f.Query); text != "" {
		pat := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
		q = q.Where(`lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'`, pat, pat)
	}

	if ids := dedupe(f.LabelIDs); len(ids) > 0 {
		// Relational division: a note qualifies only when it carries every
		// requested label. Unowned label ids have no join rows under this
		// user's notes, so they simply produce zero matches.
		q = q.Where(`id IN (
			SELECT note_id FROM note_labels
			WHERE label_id IN ? AND user_id = ?
			GROUP BY note_id
			HAVING COUNT(DISTINCT label_id) = ?)`, ids, userID, len(ids))
	}

	var candidates []uint64
	if err := q.Pluck("id", &candidates).Error; err != nil {
		return nil, err
	}
	return s.hydrate(ctx, userID, candidates)
}

// hydrate fetches the given notes (ownership re-checked) together with their
// full label sets, ordered by updated_at descending. Labels within a note are
// ordered by name.
func (s *Service) hydrate(ctx context.Context, userID uint64, noteIDs []uint64) ([]NoteWithLabels, error) {
	if len(noteIDs) == 0 {
		return []NoteWithLabels{}, nil
	}

	var notes []Note
	if err := s.DB.WithContext(ctx).
		Where("id IN ? AND user_id = ?", noteIDs, userID).
		Order("updated_at desc, id desc").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return []NoteWithLabels{}, nil
	}

	found := make([]uint64, 0, len(notes))
	for _, n := range notes {
		found = append(found, n.ID)
	}

	type labelRow struct {
		NoteID uint64
		Label  `gorm:"embedded"`
	}
	var rows []labelRow
	if err := s.DB.WithContext(ctx).
		Table("note_labels").
		Select("note_labels.note_id, labels.*").
		Joins("JOIN labels ON labels.id = note_labels.label_id").
		Where("note_labels.note_id IN ?", found).
		Order("labels.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byNote := make(map[uint64][]Label, len(notes))
	for _, r := range rows {
		byNote[r.NoteID] = append(byNote[r.NoteID], r.Label)
	}

	out := make([]NoteWithLabels, 0, len(notes))
	for _, n := range notes {
		labels := byNote[n.ID]
		if labels == nil {
			labels = []Label{}
		}
		out = append(out, NoteWithLabels{Note: n, Labels: labels})
	}
	return out, nil
}
