package store

import (
	"context"
	"database/sql"

	"github.com/example/storefront-api/internal/model"
)

func (q queries) InsertUser(ctx context.Context, u *model.User) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.CreatedAt)
	return err
}

func (q queries) UserByID(ctx context.Context, id string) (*model.User, error) {
	return q.userWhere(ctx, `id = $1`, id)
}

func (q queries) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return q.userWhere(ctx, `email = $1`, email)
}

func (q queries) userWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := q.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, is_active, created_at, updated_at
		FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (q queries) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) UpdateUserProfile(ctx context.Context, id, name string) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1
	`, id, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) AddressesByUser(ctx context.Context, userID string) ([]*model.Address, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, line1, line2, city, state, postal_code, country, is_default, created_at
		FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*model.Address
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State,
			&a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, &a)
	}
	return addresses, rows.Err()
}

func (q queries) AddressByID(ctx context.Context, id string) (*model.Address, error) {
	var a model.Address
	err := q.db.QueryRowContext(ctx, `
		SELECT id, user_id, line1, line2, city, state, postal_code, country, is_default, created_at
		FROM addresses WHERE id = $1
	`, id).Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (q queries) InsertAddress(ctx context.Context, a *model.Address) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO addresses (id, user_id, line1, line2, city, state, postal_code, country, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.UserID, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault, a.CreatedAt)
	return err
}

func (q queries) UpdateAddress(ctx context.Context, a *model.Address) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE addresses
		SET line1 = $2, line2 = $3, city = $4, state = $5, postal_code = $6, country = $7, is_default = $8
		WHERE id = $1
	`, a.ID, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q queries) DeleteAddress(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
