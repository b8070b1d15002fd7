// Package search keeps the storefront's shared search context (free-text
// query plus a selected country/state) durable per session, and applies the
// deep-link rule: URL parameters win over stored state and overwrite it.
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Location struct {
	Country string `json:"country"`
	State   string `json:"state"`
}

type Selection struct {
	Query    string    `json:"searchQuery"`
	Location *Location `json:"selectedLocation"`
}

// Params are the recognised URL parameters. Location only takes effect when
// both country and state are present, matching the storefront's deep links.
type Params struct {
	Country string
	State   string
	Query   string
}

type ISearchService interface {
	Get(ctx context.Context, sessionID string) (Selection, error)
	Set(ctx context.Context, sessionID string, sel Selection) error
	Resolve(ctx context.Context, sessionID string, p Params) (Selection, error)
	Clear(ctx context.Context, sessionID string) error
}

type searchService struct {
	db *sql.DB
}

func NewSearchService(db *sql.DB) ISearchService {
	return &searchService{db: db}
}

func (svc *searchService) Get(ctx context.Context, sessionID string) (Selection, error) {
	const q = `SELECT query, country, state FROM search_selections WHERE session_id = $1`

	var sel Selection
	var country, state sql.NullString
	err := svc.db.QueryRowContext(ctx, q, sessionID).Scan(&sel.Query, &country, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return Selection{}, nil
	}
	if err != nil {
		return Selection{}, fmt.Errorf("load search selection: %w", err)
	}
	if country.Valid && state.Valid {
		sel.Location = &Location{Country: country.String, State: state.String}
	}
	return sel, nil
}

func (svc *searchService) Set(ctx context.Context, sessionID string, sel Selection) error {
	const upsert = `
	INSERT INTO search_selections (session_id, query, country, state, updated_at)
	     VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (session_id) DO UPDATE
	       SET query      = EXCLUDED.query,
	           country    = EXCLUDED.country,
	           state      = EXCLUDED.state,
	           updated_at = now()`

	var country, state any
	if sel.Location != nil {
		country, state = sel.Location.Country, sel.Location.State
	}
	if _, err := svc.db.ExecContext(ctx, upsert, sessionID, sel.Query, country, state); err != nil {
		return fmt.Errorf("save search selection: %w", err)
	}
	return nil
}

// Resolve merges the stored selection with URL parameters. Parameters take
// precedence and are written back so the stored state keeps matching what the
// page displays.
func (svc *searchService) Resolve(ctx context.Context, sessionID string, p Params) (Selection, error) {
	sel, err := svc.Get(ctx, sessionID)
	if err != nil {
		return Selection{}, err
	}

	changed := false
	if p.Country != "" && p.State != "" {
		sel.Location = &Location{Country: p.Country, State: p.State}
		changed = true
	}
	if p.Query != "" {
		sel.Query = p.Query
		changed = true
	}
	if changed {
		if err := svc.Set(ctx, sessionID, sel); err != nil {
			return Selection{}, err
		}
	}
	return sel, nil
}

// Clear resets both fields in one statement.
func (svc *searchService) Clear(ctx context.Context, sessionID string) error {
	const del = `DELETE FROM search_selections WHERE session_id = $1`
	if _, err := svc.db.ExecContext(ctx, del, sessionID); err != nil {
		return fmt.Errorf("clear search selection: %w", err)
	}
	return nil
}
