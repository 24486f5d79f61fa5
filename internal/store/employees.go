package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/models"
)

const employeeColumns = "id, agency_id, user_id, name, email, phone, role, status, created_at"

func scanEmployee(row rowScanner) (models.Employee, error) {
	var (
		e         models.Employee
		userID    sql.NullInt64
		role      string
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.AgencyID, &userID, &e.Name, &e.Email, &e.Phone, &role, &e.Status, &createdAt); err != nil {
		return models.Employee{}, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		e.UserID = &id
	}
	e.Role = domain.Role(role)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func normalizeEmployee(e *models.Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = domain.NormalizeEmail(e.Email)
	e.Phone = strings.TrimSpace(e.Phone)
	if e.Name == "" {
		return invalid("name is required")
	}
	if e.Email == "" {
		return invalid("email is required")
	}
	if e.Role != domain.RoleAgencyAdmin && e.Role != domain.RoleAgencyUser {
		return invalid("role must be AGENCY_ADMIN or AGENCY_USER")
	}
	switch e.Status {
	case "":
		e.Status = models.EmployeeActive
	case models.EmployeeActive, models.EmployeeInactive:
	default:
		return invalid(fmt.Sprintf("unknown status %q", e.Status))
	}
	return nil
}

func nullableID(id *int) any {
	if id == nil || *id <= 0 {
		return nil
	}
	return *id
}

// CreateEmployee adds a staff member; emails are unique per agency.
func (s *Store) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if err := s.ready(ctx); err != nil {
		return models.Employee{}, err
	}
	if err := normalizeEmployee(&e); err != nil {
		return models.Employee{}, err
	}
	e.CreatedAt = s.now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO employees (agency_id, user_id, name, email, phone, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		e.AgencyID, nullableID(e.UserID), e.Name, e.Email, e.Phone, string(e.Role), e.Status, toMillis(e.CreatedAt),
	).Scan(&e.ID)
	if err != nil {
		return models.Employee{}, wrap("create employee", err)
	}
	return e, nil
}

// UpdateEmployee saves the row and mirrors role and status onto the linked
// account, so a deactivated member loses dashboard access at once.
func (s *Store) UpdateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if err := s.ready(ctx); err != nil {
		return models.Employee{}, err
	}
	if err := normalizeEmployee(&e); err != nil {
		return models.Employee{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Employee{}, fmt.Errorf("begin update employee: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE employees SET name = ?, email = ?, phone = ?, role = ?, status = ?
		WHERE id = ? AND agency_id = ?`),
		e.Name, e.Email, e.Phone, string(e.Role), e.Status, e.ID, e.AgencyID,
	)
	if err != nil {
		return models.Employee{}, wrap("update employee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Employee{}, ErrNotFound
	}

	role, agencyID := e.Role, e.AgencyID
	if e.Status != models.EmployeeActive {
		role, agencyID = domain.RoleCustomer, 0
	}
	if err := s.syncLinkedUser(ctx, tx, e.AgencyID, e.ID, role, agencyID); err != nil {
		return models.Employee{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Employee{}, fmt.Errorf("commit update employee: %w", err)
	}
	return s.GetEmployee(ctx, e.AgencyID, e.ID)
}

// syncLinkedUser sets the role and agency of the account linked to an
// employee row. Rows without an account are left alone.
func (s *Store) syncLinkedUser(ctx context.Context, tx *sql.Tx, agencyID, employeeID int, role domain.Role, userAgencyID int) error {
	var userID sql.NullInt64
	err := tx.QueryRowContext(ctx,
		s.q("SELECT user_id FROM employees WHERE id = ? AND agency_id = ?"), employeeID, agencyID,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read employee account: %w", err)
	}
	if !userID.Valid {
		return nil
	}
	// the agency owner keeps its role
	if _, err := tx.ExecContext(ctx,
		s.q("UPDATE users SET role = ?, agency_id = ? WHERE id = ? AND id <> ?"),
		string(role), userAgencyID, userID.Int64, agencyID,
	); err != nil {
		return fmt.Errorf("update employee account: %w", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, agencyID, id int) (models.Employee, error) {
	if err := s.ready(ctx); err != nil {
		return models.Employee{}, err
	}
	row := s.db.QueryRowContext(ctx,
		s.q("SELECT "+employeeColumns+" FROM employees WHERE id = ? AND agency_id = ?"), id, agencyID)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, ErrNotFound
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns staff ordered by name.
func (s *Store) ListEmployees(ctx context.Context, agencyID int) ([]models.Employee, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+employeeColumns+" FROM employees WHERE agency_id = ? ORDER BY name, id"), agencyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes the row; a linked account is demoted to a customer.
func (s *Store) DeleteEmployee(ctx context.Context, agencyID, id int) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete employee: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.syncLinkedUser(ctx, tx, agencyID, id, domain.RoleCustomer, 0); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q("DELETE FROM employees WHERE id = ? AND agency_id = ?"), id, agencyID)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete employee: %w", err)
	}
	return nil
}

func (s *Store) CountEmployees(ctx context.Context, agencyID int) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM employees WHERE agency_id = ?"), agencyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}
