package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tengjizhang/bbopml/internal/model"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SaveGuideSet stores set under a fresh id. Guides, feeds and reading lists
// keep their order.
func (s *Store) SaveGuideSet(ctx context.Context, set *model.GuideSet, source string) (model.SetSummary, error) {
	if set == nil || strings.TrimSpace(set.Title) == "" {
		return model.SetSummary{}, fmt.Errorf("guide set needs a title: %w", ErrInvalidInput)
	}

	summary := model.SetSummary{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(set.Title),
		Source:     strings.TrimSpace(source),
		Guides:     len(set.Guides),
		ImportedAt: s.now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.SetSummary{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO guide_sets(id, title, source, date_modified, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, summary.ID, summary.Title, nullIfEmpty(summary.Source), timeToDBString(set.DateModified), timeToDBString(&summary.ImportedAt)); err != nil {
		return model.SetSummary{}, fmt.Errorf("insert guide set: %w", err)
	}

	for i, g := range set.Guides {
		if g == nil {
			return model.SetSummary{}, fmt.Errorf("guide %d is nil: %w", i, ErrInvalidInput)
		}
		guideID, err := insertGuide(ctx, tx, summary.ID, i, g)
		if err != nil {
			return model.SetSummary{}, err
		}
		for j, f := range g.Feeds {
			if err := insertFeed(ctx, tx, guideID, j, f); err != nil {
				return model.SetSummary{}, err
			}
		}
		for j, rl := range g.ReadingLists {
			if err := insertReadingList(ctx, tx, guideID, j, rl); err != nil {
				return model.SetSummary{}, err
			}
		}
		summary.Feeds += len(g.Feeds)
	}

	if err := tx.Commit(); err != nil {
		return model.SetSummary{}, err
	}
	return summary, nil
}

func insertGuide(ctx context.Context, tx *sql.Tx, setID string, position int, g *model.Guide) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO guides(
			set_id, position, title, icon,
			publishing_enabled, publishing_title, publishing_tags, publishing_public, publishing_rating,
			auto_feeds_discovery, notifications_allowed, mobile
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		setID, position, g.Title, nullIfEmpty(g.Icon),
		g.PublishingEnabled, nullIfEmpty(g.PublishingTitle), nullIfEmpty(g.PublishingTags), g.PublishingPublic, g.PublishingRating,
		g.AutoFeedsDiscovery, g.NotificationsAllowed, g.Mobile,
	)
	if err != nil {
		return 0, fmt.Errorf("insert guide %q: %w", g.Title, err)
	}
	return res.LastInsertId()
}

func insertFeed(ctx context.Context, tx *sql.Tx, guideID int64, position int, f model.Feed) error {
	if f == nil {
		return fmt.Errorf("feed %d is nil: %w", position, ErrInvalidInput)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	var xmlURL any
	if d, ok := f.(*model.DirectFeed); ok {
		xmlURL = nullIfEmpty(d.XMLURL)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO feeds(guide_id, position, kind, title, xml_url, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, guideID, position, string(f.Kind()), nullIfEmpty(f.Common().Title), xmlURL, string(data)); err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	return nil
}

func insertReadingList(ctx context.Context, tx *sql.Tx, guideID int64, position int, rl *model.ReadingList) error {
	if rl == nil {
		return fmt.Errorf("reading list %d is nil: %w", position, ErrInvalidInput)
	}
	feeds := rl.Feeds
	if feeds == nil {
		feeds = []*model.DirectFeed{}
	}
	data, err := json.Marshal(feeds)
	if err != nil {
		return fmt.Errorf("encode reading list feeds: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reading_lists(guide_id, position, title, url, feeds)
		VALUES (?, ?, ?, ?, ?)
	`, guideID, position, rl.Title, rl.URL, string(data)); err != nil {
		return fmt.Errorf("insert reading list %q: %w", rl.URL, err)
	}
	return nil
}

// GetGuideSet rebuilds the stored set with the given id.
func (s *Store) GetGuideSet(ctx context.Context, id string) (*model.GuideSet, error) {
	var title string
	var dateModified sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT title, date_modified FROM guide_sets WHERE id = ?`, id).Scan(&title, &dateModified)
	if err != nil {
		return nil, wrapNotFound(id, err)
	}

	set := &model.GuideSet{Title: title, DateModified: parseDBTime(dateModified)}

	guideIDs, guides, err := s.loadGuides(ctx, id)
	if err != nil {
		return nil, err
	}
	for i, gid := range guideIDs {
		if guides[i].Feeds, err = s.loadFeeds(ctx, gid); err != nil {
			return nil, err
		}
		if guides[i].ReadingLists, err = s.loadReadingLists(ctx, gid); err != nil {
			return nil, err
		}
	}
	set.Guides = guides
	return set, nil
}

func (s *Store) loadGuides(ctx context.Context, setID string) ([]int64, []*model.Guide, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, icon,
			publishing_enabled, publishing_title, publishing_tags, publishing_public, publishing_rating,
			auto_feeds_discovery, notifications_allowed, mobile
		FROM guides
		WHERE set_id = ?
		ORDER BY position
	`, setID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ids []int64
	var guides []*model.Guide
	for rows.Next() {
		id, g, err := scanGuide(rows)
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		guides = append(guides, g)
	}
	return ids, guides, rows.Err()
}

func scanGuide(scanner rowScanner) (int64, *model.Guide, error) {
	var id int64
	var g model.Guide
	var icon, pubTitle, pubTags sql.NullString
	if err := scanner.Scan(
		&id,
		&g.Title,
		&icon,
		&g.PublishingEnabled,
		&pubTitle,
		&pubTags,
		&g.PublishingPublic,
		&g.PublishingRating,
		&g.AutoFeedsDiscovery,
		&g.NotificationsAllowed,
		&g.Mobile,
	); err != nil {
		return 0, nil, err
	}
	g.Icon = icon.String
	g.PublishingTitle = pubTitle.String
	g.PublishingTags = pubTags.String
	return id, &g, nil
}

func (s *Store) loadFeeds(ctx context.Context, guideID int64) ([]model.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, data FROM feeds WHERE guide_id = ? ORDER BY position`, guideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []model.Feed
	for rows.Next() {
		var kind, data string
		if err := rows.Scan(&kind, &data); err != nil {
			return nil, err
		}
		f, err := decodeFeed(model.FeedKind(kind), data)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func decodeFeed(kind model.FeedKind, data string) (model.Feed, error) {
	var f model.Feed
	switch kind {
	case model.KindDirect:
		f = &model.DirectFeed{}
	case model.KindQuery:
		f = &model.QueryFeed{}
	case model.KindSearch:
		f = &model.SearchFeed{}
	default:
		return nil, fmt.Errorf("unknown feed kind %q", kind)
	}
	if err := json.Unmarshal([]byte(data), f); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", kind, err)
	}
	return f, nil
}

func (s *Store) loadReadingLists(ctx context.Context, guideID int64) ([]*model.ReadingList, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, url, feeds FROM reading_lists WHERE guide_id = ? ORDER BY position`, guideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*model.ReadingList
	for rows.Next() {
		var rl model.ReadingList
		var data string
		if err := rows.Scan(&rl.Title, &rl.URL, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &rl.Feeds); err != nil {
			return nil, fmt.Errorf("decode reading list feeds: %w", err)
		}
		if len(rl.Feeds) == 0 {
			rl.Feeds = nil
		}
		lists = append(lists, &rl)
	}
	return lists, rows.Err()
}

// ListGuideSets returns summaries of all stored sets, newest first.
func (s *Store) ListGuideSets(ctx context.Context) ([]model.SetSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.source, s.imported_at,
			(SELECT COUNT(*) FROM guides g WHERE g.set_id = s.id),
			(SELECT COUNT(*) FROM feeds f JOIN guides g ON g.id = f.guide_id WHERE g.set_id = s.id)
		FROM guide_sets s
		ORDER BY s.imported_at DESC, s.title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SetSummary, 0)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func scanSummary(scanner rowScanner) (model.SetSummary, error) {
	var sum model.SetSummary
	var source sql.NullString
	var importedAt sql.NullString
	if err := scanner.Scan(&sum.ID, &sum.Title, &source, &importedAt, &sum.Guides, &sum.Feeds); err != nil {
		return model.SetSummary{}, err
	}
	sum.Source = source.String
	if t := parseDBTime(importedAt); t != nil {
		sum.ImportedAt = *t
	}
	return sum, nil
}

func (s *Store) DeleteGuideSet(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM guide_sets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("guide set %s: %w", id, ErrNotFound)
	}
	return nil
}

// DirectFeeds returns the direct feeds of a stored set in guide order.
func (s *Store) DirectFeeds(ctx context.Context, id string) ([]*model.DirectFeed, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM guide_sets WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, wrapNotFound(id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.data
		FROM feeds f
		JOIN guides g ON g.id = f.guide_id
		WHERE g.set_id = ? AND f.kind = ?
		ORDER BY g.position, f.position
	`, id, string(model.KindDirect))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.DirectFeed, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		f, err := decodeFeed(model.KindDirect, data)
		if err != nil {
			return nil, err
		}
		out = append(out, f.(*model.DirectFeed))
	}
	return out, rows.Err()
}
