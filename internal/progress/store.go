package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sensei-learn/backend/internal/models"
)

// StorageKey is the fixed prefix of every persisted profile blob.
const StorageKey = "sensei-learn-user"

// BlobKey returns the local storage key for a user.
func BlobKey(userID int64) string {
	return StorageKey + ":" + strconv.FormatInt(userID, 10)
}

// LocalStore persists whole profiles as JSON blobs in SQLite, one row per user.
type LocalStore struct {
	db *sqlx.DB
}

// OpenLocalStore opens (or creates) the SQLite file at path. ":memory:" is accepted.
func OpenLocalStore(path string) (*LocalStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect local store: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}

	return &LocalStore{db: db}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Load returns the stored profile. found is false when nothing is stored.
func (s *LocalStore) Load(ctx context.Context, userID int64) (*models.UserProfile, bool, error) {
	var blob string
	err := s.db.GetContext(ctx, &blob, `SELECT value FROM kv_store WHERE key = ?`, BlobKey(userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load profile: %w", err)
	}

	p := models.NewUserProfile(userID)
	if err := json.Unmarshal([]byte(blob), p); err != nil {
		return nil, false, fmt.Errorf("decode profile: %w", err)
	}
	if p.CharacterProgress == nil {
		p.CharacterProgress = make(map[string]models.CharacterProgress)
	}
	if p.GrammarProgress == nil {
		p.GrammarProgress = make(map[string]models.GrammarTopicProgress)
	}
	p.UserID = userID
	return p, true, nil
}

// Save overwrites the user's blob with the full profile.
func (s *LocalStore) Save(ctx context.Context, p *models.UserProfile) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		BlobKey(p.UserID), string(blob), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Delete removes the user's blob. Deleting a missing key is not an error.
func (s *LocalStore) Delete(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, BlobKey(userID)); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
