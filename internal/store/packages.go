package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

const packageColumns = `id, agency_id, title, destination, category, duration_days, price, currency,
	description, images, inclusions, exclusions, status, created_at, updated_at`

func scanPackage(row rowScanner) (models.AgencyPackage, error) {
	var (
		p                              models.AgencyPackage
		images, inclusions, exclusions string
		createdAt, updatedAt           int64
	)
	err := row.Scan(
		&p.ID, &p.AgencyID, &p.Title, &p.Destination, &p.Category, &p.DurationDays, &p.Price, &p.Currency,
		&p.Description, &images, &inclusions, &exclusions, &p.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.AgencyPackage{}, err
	}
	p.Images = decodeList(images)
	p.Inclusions = decodeList(inclusions)
	p.Exclusions = decodeList(exclusions)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func normalizePackage(p *models.AgencyPackage) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Destination = strings.TrimSpace(p.Destination)
	if p.Title == "" {
		return invalid("title is required")
	}
	if p.Destination == "" {
		return invalid("destination is required")
	}
	if p.DurationDays <= 0 {
		return invalid("duration must be at least one day")
	}
	if p.Price < 0 {
		return invalid("price cannot be negative")
	}
	if p.Currency == "" {
		p.Currency = "INR"
	}
	switch p.Status {
	case "":
		p.Status = models.PackageDraft
	case models.PackageDraft, models.PackagePublished:
	default:
		return invalid(fmt.Sprintf("unknown status %q", p.Status))
	}
	return nil
}

// CreatePackage stores a new agency package.
func (s *Store) CreatePackage(ctx context.Context, p models.AgencyPackage) (models.AgencyPackage, error) {
	if err := s.ready(ctx); err != nil {
		return models.AgencyPackage{}, err
	}
	if err := normalizePackage(&p); err != nil {
		return models.AgencyPackage{}, err
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO agency_packages (agency_id, title, destination, category, duration_days, price, currency,
		                             description, images, inclusions, exclusions, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		p.AgencyID, p.Title, p.Destination, p.Category, p.DurationDays, p.Price, p.Currency,
		p.Description, encodeList(p.Images), encodeList(p.Inclusions), encodeList(p.Exclusions),
		p.Status, toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	).Scan(&p.ID)
	if err != nil {
		return models.AgencyPackage{}, wrap("create package", err)
	}
	return p, nil
}

// UpdatePackage overwrites the editable fields of a package.
func (s *Store) UpdatePackage(ctx context.Context, p models.AgencyPackage) (models.AgencyPackage, error) {
	if err := s.ready(ctx); err != nil {
		return models.AgencyPackage{}, err
	}
	if err := normalizePackage(&p); err != nil {
		return models.AgencyPackage{}, err
	}
	p.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE agency_packages
		SET title = ?, destination = ?, category = ?, duration_days = ?, price = ?, currency = ?,
		    description = ?, images = ?, inclusions = ?, exclusions = ?, status = ?, updated_at = ?
		WHERE id = ? AND agency_id = ?`),
		p.Title, p.Destination, p.Category, p.DurationDays, p.Price, p.Currency,
		p.Description, encodeList(p.Images), encodeList(p.Inclusions), encodeList(p.Exclusions),
		p.Status, toMillis(p.UpdatedAt), p.ID, p.AgencyID,
	)
	if err != nil {
		return models.AgencyPackage{}, wrap("update package", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.AgencyPackage{}, ErrNotFound
	}
	return s.GetPackage(ctx, p.AgencyID, p.ID)
}

// SetPackageStatus publishes or unpublishes a package.
func (s *Store) SetPackageStatus(ctx context.Context, agencyID, id int, status string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if status != models.PackageDraft && status != models.PackagePublished {
		return invalid(fmt.Sprintf("unknown status %q", status))
	}
	res, err := s.db.ExecContext(ctx,
		s.q("UPDATE agency_packages SET status = ?, updated_at = ? WHERE id = ? AND agency_id = ?"),
		status, toMillis(s.now()), id, agencyID,
	)
	if err != nil {
		return fmt.Errorf("set package status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetPackage(ctx context.Context, agencyID, id int) (models.AgencyPackage, error) {
	if err := s.ready(ctx); err != nil {
		return models.AgencyPackage{}, err
	}
	row := s.db.QueryRowContext(ctx,
		s.q("SELECT "+packageColumns+" FROM agency_packages WHERE id = ? AND agency_id = ?"), id, agencyID)
	p, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AgencyPackage{}, ErrNotFound
	}
	if err != nil {
		return models.AgencyPackage{}, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

// ListPackages returns an agency's packages, newest first.
func (s *Store) ListPackages(ctx context.Context, agencyID int) ([]models.AgencyPackage, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+packageColumns+" FROM agency_packages WHERE agency_id = ? ORDER BY id DESC"), agencyID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []models.AgencyPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (s *Store) DeletePackage(ctx context.Context, agencyID, id int) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM agency_packages WHERE id = ? AND agency_id = ?"), id, agencyID)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountPackages counts an agency's packages; an empty status counts all of them.
func (s *Store) CountPackages(ctx context.Context, agencyID int, status string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	query := "SELECT COUNT(*) FROM agency_packages WHERE agency_id = ?"
	args := []any{agencyID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.q(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	return n, nil
}
