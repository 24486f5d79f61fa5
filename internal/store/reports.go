package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

const reportColumns = "id, agency_id, name, kind, format, status, rows_count, content, created_at"

func scanReport(row rowScanner) (models.Report, error) {
	var (
		r         models.Report
		createdAt int64
	)
	if err := row.Scan(&r.ID, &r.AgencyID, &r.Name, &r.Kind, &r.Format, &r.Status, &r.Rows, &r.Content, &createdAt); err != nil {
		return models.Report{}, err
	}
	r.CreatedAt = fromMillis(createdAt)
	return r, nil
}

func (s *Store) CreateReport(ctx context.Context, r models.Report) (models.Report, error) {
	if err := s.ready(ctx); err != nil {
		return models.Report{}, err
	}
	if r.Name == "" {
		return models.Report{}, invalid("report name is required")
	}
	if r.Format == "" {
		r.Format = "csv"
	}
	r.CreatedAt = s.now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO reports (agency_id, name, kind, format, status, rows_count, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		r.AgencyID, r.Name, r.Kind, r.Format, r.Status, r.Rows, r.Content, toMillis(r.CreatedAt),
	).Scan(&r.ID)
	if err != nil {
		return models.Report{}, wrap("create report", err)
	}
	return r, nil
}

func (s *Store) GetReport(ctx context.Context, agencyID, id int) (models.Report, error) {
	if err := s.ready(ctx); err != nil {
		return models.Report{}, err
	}
	row := s.db.QueryRowContext(ctx,
		s.q("SELECT "+reportColumns+" FROM reports WHERE id = ? AND agency_id = ?"), id, agencyID)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

// ListReports returns an agency's reports, newest first.
func (s *Store) ListReports(ctx context.Context, agencyID int) ([]models.Report, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+reportColumns+" FROM reports WHERE agency_id = ? ORDER BY id DESC"), agencyID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) CountReports(ctx context.Context, agencyID int) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM reports WHERE agency_id = ?"), agencyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}
