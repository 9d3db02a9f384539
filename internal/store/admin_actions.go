package store

import (
	"context"

	"freshmart/internal/models"
)

// LogAdminAction appends an entry to the admin audit log
func (s *Store) LogAdminAction(ctx context.Context, a *models.AdminAction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_actions (admin_id, action, entity_type, entity_id, details)
		VALUES (?, ?, ?, ?, ?)
	`, a.AdminID, a.Action, a.EntityType, a.EntityID, nullableJSON(a.Details))
	return err
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// ListAdminActions returns a page of audit entries (newest first) with the
// acting admin attached, plus the total count
func (s *Store) ListAdminActions(ctx context.Context, page, limit int) ([]models.AdminAction, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_actions").Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			a.id, a.admin_id, a.action, a.entity_type, a.entity_id, a.details, a.created_at,
			u.id, u.email, u.first_name, u.last_name
		FROM admin_actions a
		JOIN users u ON a.admin_id = u.id
		ORDER BY a.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var actions []models.AdminAction
	for rows.Next() {
		var a models.AdminAction
		var u models.User
		var details []byte
		err := rows.Scan(
			&a.ID, &a.AdminID, &a.Action, &a.EntityType, &a.EntityID, &details, &a.CreatedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName,
		)
		if err != nil {
			return nil, 0, err
		}
		a.Details = details
		a.Admin = &u
		actions = append(actions, a)
	}

	return actions, total, rows.Err()
}
