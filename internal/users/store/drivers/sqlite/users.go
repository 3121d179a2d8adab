package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/internal/users/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, username, email, password_hash, role, is_active,
	failed_login_attempts, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.IsActive,
		&u.FailedLoginAttempts,
		&lastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Role = domain.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	var lastLogin sql.NullTime
	if u.LastLoginAt != nil {
		lastLogin = sql.NullTime{Time: *u.LastLoginAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, is_active,
			failed_login_attempts, last_login_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role.String(),
		u.IsActive,
		u.FailedLoginAttempts,
		lastLogin,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id, username, email string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, updated_at = ?
		WHERE id = ?`,
		username, email, time.Now().UTC(), id)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ?
		WHERE id = ?`,
		newHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET is_active = ?, updated_at = ?
		WHERE id = ?`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET last_login_at = ?, failed_login_attempts = 0, updated_at = ?
		WHERE id = ?`,
		at.UTC(), at.UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) IncrementFailedLogins(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET failed_login_attempts = failed_login_attempts + 1, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) Count(ctx context.Context, filter store.ListFilter) (int64, error) {
	where, args := buildFilter(filter)

	var total int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total)
	return total, err
}

func (r *usersRepo) List(ctx context.Context, filter store.ListFilter, limit, offset int) ([]domain.User, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// buildFilter translates a ListFilter into a WHERE clause. The search term is
// matched case-insensitively against username and email.
func buildFilter(filter store.ListFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.Role != "" {
		clauses = append(clauses, `role = ?`)
		args = append(args, filter.Role.String())
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		clauses = append(clauses, `(LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike neutralises LIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
