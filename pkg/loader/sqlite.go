package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// SQLiteSource reads the content gallery tables of a site database. Image
// sizes come from the files under the media root; rows whose file is missing
// are skipped.
type SQLiteSource struct {
	db        *sql.DB
	mediaURL  string
	mediaRoot string
	sizes     model.SizeSpec
}

// OpenSQLite opens the database at dbPath. The file must exist.
func OpenSQLite(dbPath, mediaURL, mediaRoot string, sizes model.SizeSpec) (*SQLiteSource, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no gallery database found at %s: %w", dbPath, err)
	}
	db, err := sql.Open(sqliteDriver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if mediaRoot == "" {
		mediaRoot = filepath.Dir(dbPath)
	}
	return &SQLiteSource{db: db, mediaURL: mediaURL, mediaRoot: mediaRoot, sizes: sizes}, nil
}

// Close closes the database connection
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) Load(ctx context.Context, key model.Key) (model.Snapshot, error) {
	var typeID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM django_content_type WHERE app_label = ? AND model = ?
	`, key.AppLabel, key.ContentType).Scan(&typeID)
	if err == sql.ErrNoRows {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("query content type: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT image
		FROM content_gallery_image
		WHERE content_type_id = ? AND object_id = ?
		ORDER BY position, id
	`, typeID, key.ObjectID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	snap := model.Snapshot{SizeSpec: s.sizes, Images: []model.ImageItem{}}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return model.Snapshot{}, err
		}
		size, err := decodeSize(filepath.Join(s.mediaRoot, filepath.FromSlash(name)))
		if err != nil {
			continue
		}
		snap.Images = append(snap.Images, buildItem(MediaURL(s.mediaURL, name), size, s.sizes))
	}
	return snap, rows.Err()
}

// Keys lists every record that has at least one image
func (s *SQLiteSource) Keys(ctx context.Context) ([]model.Key, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ct.app_label, ct.model, i.object_id
		FROM content_gallery_image i
		JOIN django_content_type ct ON ct.id = i.content_type_id
		ORDER BY ct.app_label, ct.model, i.object_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query gallery keys: %w", err)
	}
	defer rows.Close()

	var keys []model.Key
	for rows.Next() {
		var k model.Key
		if err := rows.Scan(&k.AppLabel, &k.ContentType, &k.ObjectID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
