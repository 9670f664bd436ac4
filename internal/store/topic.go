package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Page layouts.
const (
	KindCover    = "cover"
	KindStandard = "standard"
	KindList     = "list"
)

// Pool is a set of interchangeable phrases a body line can draw from.
type Pool struct {
	// Distinct pools never hand out the same entry twice for one page.
	Distinct bool     `json:"distinct,omitempty"`
	Entries  []string `json:"entries"`
}

// Topic is the content template of one brochure page.
type Topic struct {
	ID        string
	PageIndex int
	Title     string
	Subtitle  string
	Kind      string
	Theme     string // hex color, e.g. "#E5C89B"
	Art       string
	Body      []string
	Pools     map[string]Pool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TopicRepository provides CRUD operations for topics.
type TopicRepository struct {
	db *sql.DB
}

// Topics returns the topic repository for this store.
func (s *Store) Topics() *TopicRepository {
	return &TopicRepository{db: s.db}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Create inserts a new topic. An empty ID is filled with a fresh UUID.
func (r *TopicRepository) Create(t *Topic) error {
	return createTopic(r.db, t)
}

func createTopic(db execer, t *Topic) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	body, pools, err := encodeTopic(t)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO topics (id, page_index, title, subtitle, kind, theme, art, body, pools, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PageIndex, t.Title, t.Subtitle, t.Kind, t.Theme, t.Art, body, pools, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// GetByID retrieves a topic by its ID.
func (r *TopicRepository) GetByID(id string) (*Topic, error) {
	return scanTopic(r.db.QueryRow(
		`SELECT id, page_index, title, subtitle, kind, theme, art, body, pools, created_at, updated_at
		 FROM topics WHERE id = ?`,
		id,
	))
}

// GetByIndex retrieves the topic of the given page.
func (r *TopicRepository) GetByIndex(index int) (*Topic, error) {
	return scanTopic(r.db.QueryRow(
		`SELECT id, page_index, title, subtitle, kind, theme, art, body, pools, created_at, updated_at
		 FROM topics WHERE page_index = ?`,
		index,
	))
}

// List retrieves all topics in page order.
func (r *TopicRepository) List() ([]*Topic, error) {
	rows, err := r.db.Query(
		`SELECT id, page_index, title, subtitle, kind, theme, art, body, pools, created_at, updated_at
		 FROM topics ORDER BY page_index`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return topics, nil
}

// Count returns the number of stored topics.
func (r *TopicRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM topics`).Scan(&n)
	return n, err
}

// Update updates an existing topic.
func (r *TopicRepository) Update(t *Topic) error {
	t.UpdatedAt = time.Now()

	body, pools, err := encodeTopic(t)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(
		`UPDATE topics SET page_index = ?, title = ?, subtitle = ?, kind = ?, theme = ?, art = ?,
		 body = ?, pools = ?, updated_at = ? WHERE id = ?`,
		t.PageIndex, t.Title, t.Subtitle, t.Kind, t.Theme, t.Art, body, pools, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a topic by its ID.
func (r *TopicRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Seed inserts topics in one transaction when the table is empty.
// It returns how many topics were inserted.
func (r *TopicRepository) Seed(topics []*Topic) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM topics`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, t := range topics {
		if err := createTopic(tx, t); err != nil {
			return 0, fmt.Errorf("seed topic %d: %w", t.PageIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(topics), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(row scanner) (*Topic, error) {
	t := &Topic{}
	var body, pools string

	err := row.Scan(&t.ID, &t.PageIndex, &t.Title, &t.Subtitle, &t.Kind, &t.Theme, &t.Art,
		&body, &pools, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(body), &t.Body); err != nil {
		return nil, fmt.Errorf("decode body of topic %s: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(pools), &t.Pools); err != nil {
		return nil, fmt.Errorf("decode pools of topic %s: %w", t.ID, err)
	}
	return t, nil
}

func encodeTopic(t *Topic) (string, string, error) {
	lines := t.Body
	if lines == nil {
		lines = []string{}
	}
	body, err := json.Marshal(lines)
	if err != nil {
		return "", "", fmt.Errorf("encode body: %w", err)
	}

	pools := t.Pools
	if pools == nil {
		pools = map[string]Pool{}
	}
	poolData, err := json.Marshal(pools)
	if err != nil {
		return "", "", fmt.Errorf("encode pools: %w", err)
	}
	return string(body), string(poolData), nil
}
