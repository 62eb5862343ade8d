package playlist

import (
	"context"
	"log/slog"
	"strings"

	"tubegrab/internal/logging"
	"tubegrab/internal/services"
	"tubegrab/internal/services/ytdlp"
)

// IsCollection reports whether ref names a playlist-like collection. It is a
// substring check on "playlist?" and "list=", so a "list=" embedded in an
// unrelated query value is also classified as a collection.
func IsCollection(ref string) bool {
	return strings.Contains(ref, "playlist?") || strings.Contains(ref, "list=")
}

// WatchURL builds the item reference for a listing entry id.
func WatchURL(id string) string {
	return ytdlp.WatchURLPrefix + id
}

// Lister returns a flattened collection listing.
type Lister interface {
	FlatPlaylist(ctx context.Context, ref string) (ytdlp.Listing, error)
}

// Item is one expanded collection entry.
type Item struct {
	Reference string
	ID        string
	Title     string
}

// Expander resolves collections into ordered item references.
type Expander struct {
	lister Lister
	logger *slog.Logger
}

// NewExpander builds an Expander over lister.
func NewExpander(lister Lister, logger *slog.Logger) *Expander {
	return &Expander{lister: lister, logger: logging.NewComponentLogger(logger, "playlist")}
}

// Expand lists the whole collection before returning, preserving upstream
// order without deduplication. Entries without an id are skipped.
func (e *Expander) Expand(ctx context.Context, ref string) ([]Item, error) {
	listing, err := e.lister.FlatPlaylist(ctx, ref)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "playlist", "list", ref, err)
	}
	items := make([]Item, 0, len(listing.Entries))
	for i, entry := range listing.Entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			logging.WarnWithContext(e.logger, "listing entry without id", "playlist_entry_skipped",
				logging.Int("position", i+1),
				logging.String("title", entry.Title),
				logging.String(logging.FieldImpact, "entry not downloaded"),
			)
			continue
		}
		items = append(items, Item{Reference: WatchURL(id), ID: id, Title: entry.Title})
	}
	e.logger.Info("collection expanded",
		logging.String(logging.FieldReference, ref),
		logging.String("collection", listing.Title),
		logging.Int("items", len(items)),
	)
	return items, nil
}
