package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

// UserRepository implements the credential store on SQLite. Obtain one from
// Store.Users so writes share the database-wide lock.
type UserRepository struct {
	db        *sql.DB
	writeLock *sync.Mutex
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, roles, secret_phrase, is_active) VALUES (?, ?, ?, ?)",
		user.Username, user.Roles, user.SecretPhrase, boolToInt(user.IsActive),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user id: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var (
		user   domain.User
		active int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, roles, secret_phrase, is_active FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.Roles, &user.SecretPhrase, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.IsActive = active != 0
	return &user, nil
}

func (r *UserRepository) UpdateSecretPhrase(ctx context.Context, id int64, secretPhrase string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET secret_phrase = ? WHERE id = ?",
		secretPhrase, id,
	)
	if err != nil {
		return fmt.Errorf("update secret phrase: %w", err)
	}
	return requireRows(res)
}

// UpdateSecretPhraseByUsername serves the realtime channel, whose messages
// address targets by username.
func (r *UserRepository) UpdateSecretPhraseByUsername(ctx context.Context, username, secretPhrase string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET secret_phrase = ? WHERE username = ?",
		secretPhrase, username,
	)
	if err != nil {
		return fmt.Errorf("update secret phrase: %w", err)
	}
	return requireRows(res)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, roles, secret_phrase, is_active FROM users ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var (
			user   domain.User
			active int64
		)
		if err := rows.Scan(&user.ID, &user.Username, &user.Roles, &user.SecretPhrase, &active); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.IsActive = active != 0
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
