// Package seed loads reference data (groups, study activities, words) from
// YAML fixture files into the store.
package seed

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lang-portal/internal/shared/config"
	"lang-portal/internal/shared/database"
	"lang-portal/internal/shared/validation"
)

// Fixtures is the top-level document of a seed file.
type Fixtures struct {
	Groups          []Group         `yaml:"groups"`
	StudyActivities []StudyActivity `yaml:"study_activities"`
	Words           []Word          `yaml:"words"`
}

// Group is a learner group. A zero ID lets the store assign one.
type Group struct {
	ID   int64  `yaml:"id,omitempty"`
	Name string `yaml:"name"`
}

// StudyActivity is a launchable activity.
type StudyActivity struct {
	ID   int64  `yaml:"id,omitempty"`
	Name string `yaml:"name"`
	URL  string `yaml:"url,omitempty"`
}

// Word is a vocabulary entry.
type Word struct {
	ID      int64  `yaml:"id,omitempty"`
	Kanji   string `yaml:"kanji"`
	Romaji  string `yaml:"romaji"`
	English string `yaml:"english"`
}

// Result counts the rows written by Apply.
type Result struct {
	Groups          int
	StudyActivities int
	Words           int
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture YAML, rejecting unknown fields, and validates it.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &f, nil
}

// Validate sanitizes names and checks required fields.
func (f *Fixtures) Validate() error {
	for i := range f.Groups {
		g := &f.Groups[i]
		g.Name = validation.SanitizeString(g.Name)
		if !validation.ValidateStringLength(g.Name, 1, config.MaxNameLen) {
			return fmt.Errorf("groups[%d]: name must be 1-%d characters", i, config.MaxNameLen)
		}
	}

	for i := range f.StudyActivities {
		a := &f.StudyActivities[i]
		a.Name = validation.SanitizeString(a.Name)
		if !validation.ValidateStringLength(a.Name, 1, config.MaxNameLen) {
			return fmt.Errorf("study_activities[%d]: name must be 1-%d characters", i, config.MaxNameLen)
		}
	}

	for i := range f.Words {
		w := &f.Words[i]
		w.Kanji = validation.SanitizeString(w.Kanji)
		w.Romaji = validation.SanitizeString(w.Romaji)
		w.English = validation.SanitizeString(w.English)
		if w.Kanji == "" || w.Romaji == "" || w.English == "" {
			return fmt.Errorf("words[%d]: kanji, romaji and english are required", i)
		}
	}

	return nil
}

// Apply upserts all fixtures by id in a single transaction.
func Apply(ctx context.Context, db *database.DB, f *Fixtures) (*Result, error) {
	result := &Result{}

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, g := range f.Groups {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO groups (id, name) VALUES (?, ?)
				 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
				nullableID(g.ID), g.Name,
			); err != nil {
				return fmt.Errorf("failed to seed group %q: %w", g.Name, err)
			}
			result.Groups++
		}

		for _, a := range f.StudyActivities {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO study_activities (id, name, url) VALUES (?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET name = excluded.name, url = excluded.url`,
				nullableID(a.ID), a.Name, a.URL,
			); err != nil {
				return fmt.Errorf("failed to seed study activity %q: %w", a.Name, err)
			}
			result.StudyActivities++
		}

		for _, w := range f.Words {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO words (id, kanji, romaji, english) VALUES (?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET kanji = excluded.kanji, romaji = excluded.romaji, english = excluded.english`,
				nullableID(w.ID), w.Kanji, w.Romaji, w.English,
			); err != nil {
				return fmt.Errorf("failed to seed word %q: %w", w.Kanji, err)
			}
			result.Words++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
