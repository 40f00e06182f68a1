package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

const insertMappingSQL = `INSERT INTO mappings (
	id, year, semester, type, course_name, lecture_name, learning_objective, bloom_level,
	activity, assessment_method, difficulty, is_assessed, acoe_standard, questions, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertStandardSQL = `INSERT INTO mapping_standards (
	mapping_id, position, column_name, code, title, combined
) VALUES (?, ?, ?, ?, ?, ?)`

const selectMappingsSQL = `SELECT
	id, year, semester, type, course_name, lecture_name, learning_objective, bloom_level,
	activity, assessment_method, difficulty, is_assessed, acoe_standard, questions, created_at
FROM mappings
WHERE (? = '' OR year = ?) AND (? = '' OR semester = ?) AND (? = '' OR course_name = ?)
ORDER BY rowid`

const selectStandardsSQL = `SELECT mapping_id, column_name, code, title, combined
FROM mapping_standards
ORDER BY mapping_id, position`

// Append inserts rows in one transaction. Rows without an ID get a new UUID
// and rows without a timestamp get the current time.
func (s *SQLiteStore) Append(ctx context.Context, rows []core.Mapping) error {
	if s.db == nil {
		return ErrNotOpened
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertMappings(ctx, tx, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mappings: %w", err)
	}

	s.logger.Debug("mappings appended", slog.Int("count", len(rows)))
	return nil
}

// Replace deletes every stored mapping and inserts rows in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, rows []core.Mapping) error {
	if s.db == nil {
		return ErrNotOpened
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mapping_standards`); err != nil {
		return fmt.Errorf("failed to clear standards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM mappings`); err != nil {
		return fmt.Errorf("failed to clear mappings: %w", err)
	}
	if err := insertMappings(ctx, tx, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mappings: %w", err)
	}

	s.logger.Debug("mappings replaced", slog.Int("count", len(rows)))
	return nil
}

func insertMappings(ctx context.Context, tx *sql.Tx, rows []core.Mapping) error {
	now := time.Now().UTC()
	for i := range rows {
		m := rows[i]
		if m.ID == "" {
			m.ID = generateID()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}

		if _, err := tx.ExecContext(ctx, insertMappingSQL,
			m.ID, m.Year, m.Semester, m.Type, m.CourseName, m.LectureName, m.LearningObjective,
			m.BloomLevel, m.Activity, m.AssessmentMethod, m.Difficulty, m.IsAssessed,
			m.ACOEStandard, m.Questions, m.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert mapping: %w", err)
		}

		for pos, std := range m.Standards {
			if _, err := tx.ExecContext(ctx, insertStandardSQL,
				m.ID, pos, std.Column, std.Code, std.Title, std.Combined,
			); err != nil {
				return fmt.Errorf("failed to insert standard %s: %w", std.Column, err)
			}
		}
	}
	return nil
}

// List returns the mappings matching filter in insertion order.
func (s *SQLiteStore) List(ctx context.Context, filter core.MappingFilter) ([]core.Mapping, error) {
	if s.db == nil {
		return nil, ErrNotOpened
	}

	rows, err := s.db.QueryContext(ctx, selectMappingsSQL,
		filter.Year, filter.Year,
		filter.Semester, filter.Semester,
		filter.CourseName, filter.CourseName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []core.Mapping
	index := make(map[string]int)
	for rows.Next() {
		var m core.Mapping
		if err := rows.Scan(
			&m.ID, &m.Year, &m.Semester, &m.Type, &m.CourseName, &m.LectureName, &m.LearningObjective,
			&m.BloomLevel, &m.Activity, &m.AssessmentMethod, &m.Difficulty, &m.IsAssessed,
			&m.ACOEStandard, &m.Questions, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		index[m.ID] = len(mappings)
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	if len(mappings) == 0 {
		return nil, nil
	}

	if err := s.attachStandards(ctx, mappings, index); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (s *SQLiteStore) attachStandards(ctx context.Context, mappings []core.Mapping, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, selectStandardsSQL)
	if err != nil {
		return fmt.Errorf("failed to list standards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var std core.Standard
		if err := rows.Scan(&id, &std.Column, &std.Code, &std.Title, &std.Combined); err != nil {
			return fmt.Errorf("failed to scan standard: %w", err)
		}
		if i, ok := index[id]; ok {
			mappings[i].Standards = append(mappings[i].Standards, std)
		}
	}
	return rows.Err()
}

// Count returns the number of stored mappings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpened
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mappings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count mappings: %w", err)
	}
	return n, nil
}
