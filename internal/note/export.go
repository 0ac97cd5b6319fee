package note

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ExportFile is a plain-text projection of a note, suitable for download.
type ExportFile struct {
	Name string
	Body string
}

var (
	exportStripRe = regexp.MustCompile(`[^\w\s-]`)
	exportSpaceRe = regexp.MustCompile(`\s+`)
)

// Export renders a note as flat text: title, timestamps, comma-joined label
// names when any exist, then the content.
func (s *Service) Export(ctx context.Context, noteID, userID uint64) (*ExportFile, error) {
	n, err := s.Get(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\n", n.Title)
	fmt.Fprintf(&b, "Created: %s\n", n.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Updated: %s\n", n.UpdatedAt.Format(time.RFC3339))
	if len(n.Labels) > 0 {
		names := make([]string, 0, len(n.Labels))
		for _, l := range n.Labels {
			names = append(names, l.Name)
		}
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")
	b.WriteString(n.Content)

	return &ExportFile{
		Name: fmt.Sprintf("%s_%d.txt", sanitizeTitle(n.Title), n.ID),
		Body: b.String(),
	}, nil
}

func sanitizeTitle(title string) string {
	s := exportStripRe.ReplaceAllString(title, "")
	s = exportSpaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		s = "note"
	}
	return s
}
