package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"crok/internal/domain"
	"crok/internal/domain/models"
	"crok/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new user. The unique index on username makes the
// taken-username check race-free.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Users)

	_, err := exec.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("username %q: %w", user.Username, domain.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	exec := GetExecutor(ctx, r.pool)

	query := fmt.Sprintf(`
		SELECT id, username, password_hash, created_at
		FROM %s
		WHERE username = $1
	`, r.tables.Users)

	var user models.User
	err := exec.QueryRow(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
