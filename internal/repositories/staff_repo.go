package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intdb "cabline/internal/db"
	"cabline/internal/domain"
	"cabline/internal/domain/models"
)

// StaffRepo stores staff accounts for the admin surface.
type StaffRepo struct {
	DB *sql.DB
}

func (r StaffRepo) EnsureTable() error {
	if r.DB == nil {
		return domain.InternalError{Msg: "staff db not configured"}
	}
	if intdb.HasTable(r.DB, "staff_users") {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS staff_users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(50) NOT NULL DEFAULT 'operator',
	status VARCHAR(50) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

// GetByEmail returns the account and its password hash for login checks.
func (r StaffRepo) GetByEmail(email string) (models.StaffUser, string, error) {
	if r.DB == nil {
		return models.StaffUser{}, "", domain.InternalError{Msg: "staff db not configured"}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.StaffUser{}, "", domain.ValidationError{Field: "email", Msg: "required"}
	}

	var (
		u    models.StaffUser
		hash string
	)
	err := r.DB.QueryRow(`
		SELECT id, name, email, password_hash, role, status
		FROM staff_users
		WHERE email = ?
	`, email).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StaffUser{}, "", domain.NotFoundError{Resource: "staff user"}
		}
		return models.StaffUser{}, "", domain.InternalError{Msg: "read staff user failed", Err: err}
	}
	return u, hash, nil
}

// TouchLastLogin records a successful login when the optional column is
// present. Best-effort; older schemas simply skip it.
func (r StaffRepo) TouchLastLogin(email string) {
	if r.DB == nil || !intdb.HasColumn(r.DB, "staff_users", "last_login_at") {
		return
	}
	_, _ = r.DB.Exec(`UPDATE staff_users SET last_login_at = NOW() WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (r StaffRepo) Create(name, email, passwordHash, role string) (models.StaffUser, error) {
	if r.DB == nil {
		return models.StaffUser{}, domain.InternalError{Msg: "staff db not configured"}
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || passwordHash == "" {
		return models.StaffUser{}, domain.ValidationError{Field: "staff", Msg: "name, email and password required"}
	}
	if role == "" {
		role = "operator"
	}

	var exists int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM staff_users WHERE email = ?`, email).Scan(&exists); err != nil {
		return models.StaffUser{}, domain.InternalError{Msg: "check staff user failed", Err: err}
	}
	if exists > 0 {
		return models.StaffUser{}, domain.ConflictError{Resource: "staff user", Msg: "email already registered"}
	}

	res, err := r.DB.Exec(`
		INSERT INTO staff_users (name, email, password_hash, role, status)
		VALUES (?, ?, ?, ?, 'active')
	`, name, email, passwordHash, role)
	if err != nil {
		return models.StaffUser{}, domain.InternalError{Msg: "insert staff user failed", Err: err}
	}
	id, _ := res.LastInsertId()
	return models.StaffUser{ID: id, Name: name, Email: email, Role: role, Status: "active"}, nil
}
