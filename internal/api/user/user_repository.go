package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rmarques/go-rest-starter/internal/api"
)

const uniqueViolationCode = "23505"

const userColumns = `id, email, password_hash, first_name, last_name, role,
	is_email_verified, is_active, profile_picture, created_at, updated_at`

// PgxPool is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user persistence.
type UserRepo interface {
	// FindByEmail looks a user up by normalized email.
	// Returns api.ErrNotFound when no such user exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID looks a user up by ID. Returns api.ErrNotFound when missing.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Create inserts a new user and returns the stored record with its
	// generated ID and timestamps. Returns api.ErrConflict when the email
	// is already taken; the unique index is the authoritative guard.
	Create(ctx context.Context, params CreateUserParams) (*User, error)

	// Update applies a partial update and returns the updated record.
	// Returns api.ErrNotFound when the ID does not exist.
	Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*User, error)

	// Remove deletes a user. Returns api.ErrNotFound when the ID does not
	// exist. Deletion is physical.
	Remove(ctx context.Context, id uuid.UUID) error

	// ListAll returns every user without their password hashes.
	ListAll(ctx context.Context) ([]User, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	db     PgxPool
}

func NewPostgresUserRepo(db PgxPool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		db:     db,
	}
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsEmailVerified, &u.IsActive, &u.ProfilePicture,
		&u.CreatedAt, &u.UpdatedAt)
}

func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	row := r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
		NormalizeEmail(email))
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by email: query failed: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	row := r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, api.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by id: query failed: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) Create(ctx context.Context, params CreateUserParams) (*User, error) {
	u := User{
		Email:           NormalizeEmail(params.Email),
		PasswordHash:    params.PasswordHash,
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Role:            params.Role,
		IsEmailVerified: params.IsEmailVerified,
		IsActive:        params.IsActive,
	}
	if u.Role == "" {
		u.Role = "user"
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role, is_email_verified, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
		u.IsEmailVerified, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("email already registered: %w", api.ErrConflict)
		}
		return nil, fmt.Errorf("create user: insert failed: %w", err)
	}

	r.logger.DebugContext(ctx, "User created", slog.String("user_id", u.ID.String()))
	return &u, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*User, error) {
	setClauses := make([]string, 0, 8)
	args := make([]any, 0, 8)
	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Email != nil {
		addSet("email", NormalizeEmail(*params.Email))
	}
	if params.FirstName != nil {
		addSet("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		addSet("last_name", *params.LastName)
	}
	if params.Role != nil {
		addSet("role", *params.Role)
	}
	if params.IsEmailVerified != nil {
		addSet("is_email_verified", *params.IsEmailVerified)
	}
	if params.IsActive != nil {
		addSet("is_active", *params.IsActive)
	}
	if params.ProfilePicture != nil {
		addSet("profile_picture", *params.ProfilePicture)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), userColumns)

	var u User
	if err := scanUser(r.db.QueryRow(ctx, query, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, api.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("email already registered: %w", api.ErrConflict)
		}
		return nil, fmt.Errorf("update user: query failed: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) Remove(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("remove user: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, api.ErrNotFound)
	}
	r.logger.DebugContext(ctx, "User removed", slog.String("user_id", id.String()))
	return nil
}

func (r *PostgresUserRepo) ListAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, first_name, last_name, role, is_email_verified,
		        is_active, profile_picture, created_at, updated_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: query failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
			&u.IsEmailVerified, &u.IsActive, &u.ProfilePicture,
			&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("list users: scan failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: rows failed: %w", err)
	}
	return users, nil
}
