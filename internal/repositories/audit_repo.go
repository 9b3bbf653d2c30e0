package repositories

import (
	"database/sql"
	"strings"

	intdb "cabline/internal/db"
	"cabline/internal/domain"
	"cabline/internal/domain/models"
)

// AuditRepo appends and reads the relational audit trail. Writes are
// fire-and-forget from the mutation's point of view; the service logs
// failures instead of failing the mutation.
type AuditRepo struct {
	DB *sql.DB
}

func (r AuditRepo) EnsureTable() error {
	if r.DB == nil {
		return domain.InternalError{Msg: "audit db not configured"}
	}
	if intdb.HasTable(r.DB, "audit_log") {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS audit_log (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	action VARCHAR(100) NOT NULL,
	entity VARCHAR(100) NOT NULL,
	entity_id VARCHAR(64) NOT NULL,
	details TEXT,
	user VARCHAR(255) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_entity (entity, entity_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

func (r AuditRepo) Insert(entry models.AuditEntry) error {
	if r.DB == nil {
		return domain.InternalError{Msg: "audit db not configured"}
	}
	if strings.TrimSpace(entry.Action) == "" || strings.TrimSpace(entry.EntityID) == "" {
		return domain.ValidationError{Field: "audit", Msg: "action and entity_id required"}
	}
	_, err := r.DB.Exec(`
		INSERT INTO audit_log (action, entity, entity_id, details, user)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Action, entry.Entity, entry.EntityID, intdb.NullIfEmpty(entry.Details), entry.User)
	if err != nil {
		return domain.InternalError{Msg: "insert audit entry failed", Err: err}
	}
	return nil
}

func (r AuditRepo) ListByEntity(entity, entityID string) ([]models.AuditEntry, error) {
	if r.DB == nil {
		return nil, domain.InternalError{Msg: "audit db not configured"}
	}
	rows, err := r.DB.Query(`
		SELECT id, action, entity, entity_id, COALESCE(details, ''), user, created_at
		FROM audit_log
		WHERE entity = ? AND entity_id = ?
		ORDER BY id ASC
	`, entity, entityID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list audit entries failed", Err: err}
	}
	defer rows.Close()

	out := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Entity, &e.EntityID, &e.Details, &e.User, &e.CreatedAt); err != nil {
			return nil, domain.InternalError{Msg: "scan audit entry failed", Err: err}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list audit entries failed", Err: err}
	}
	return out, nil
}
