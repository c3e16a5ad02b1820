package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"recipebook-backend/internal/domains/user/model"
	"recipebook-backend/internal/shared/query"
	"recipebook-backend/internal/shared/utils"
	"recipebook-backend/pkg/database"
)

const userColumns = `id, dni, name, city, version, created_at, updated_at`

// sortBy field -> column
var userSortColumns = map[string]string{
	"id":   "id",
	"name": "name",
	"city": "city",
}

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.DNI, &u.Name, &u.City, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func findUserByID(ctx context.Context, db database.DBTX, id uuid.UUID, lock bool) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if lock {
		q += ` FOR UPDATE`
	}
	u, err := scanUser(db.QueryRow(ctx, q, id))
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, err
}

// =====================================================
// READ
// =====================================================

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return findUserByID(ctx, r.pool, id, false)
}

func (r *postgresUserRepository) FindByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.User, error) {
	return findUserByID(ctx, tx, id, true)
}

func (r *postgresUserRepository) FindByDNIWithTx(ctx context.Context, tx pgx.Tx, dni string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE upper(dni) = upper($1)`
	u, err := scanUser(tx.QueryRow(ctx, q, dni))
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by dni: %w", err)
	}
	return u, err
}

// =====================================================
// WRITE
// =====================================================

func (r *postgresUserRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, u *model.User) error {
	q := `
		INSERT INTO users (id, dni, name, city, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.Exec(ctx, q, u.ID, u.DNI, u.Name, u.City, u.Version, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrDuplicateDNI
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, u *model.User) error {
	q := `
		UPDATE users
		SET name = $1, city = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`
	err := tx.QueryRow(ctx, q, u.Name, u.City, time.Now(), u.ID, u.Version).Scan(&u.Version, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrVersionConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// =====================================================
// SEARCH
// =====================================================

func (r *postgresUserRepository) Search(ctx context.Context, filter model.SearchFilter) ([]*model.User, int, error) {
	var where utils.WhereBuilder
	if filter.Name != "" {
		where.Where(`name ILIKE ` + where.Arg(utils.ContainsPattern(filter.Name)))
	}
	if filter.City != "" {
		where.Where(`city ILIKE ` + where.Arg(utils.ContainsPattern(filter.City)))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where.Clause(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	orderBy := ` ORDER BY created_at, id`
	if s := query.ParseSort(filter.SortBy); s != nil {
		if col, ok := userSortColumns[strings.ToLower(s.Field)]; ok {
			dir := "ASC"
			if s.Desc {
				dir = "DESC"
			}
			orderBy = fmt.Sprintf(` ORDER BY %s %s, id`, pq.QuoteIdentifier(col), dir)
		}
	}

	args := where.Args()
	q := `SELECT ` + userColumns + ` FROM users` + where.Clause() + orderBy +
		fmt.Sprintf(` LIMIT %d OFFSET %d`, query.PageSize, query.Offset(filter.Page))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// =====================================================
// TOKENS
// =====================================================

type postgresTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &postgresTokenRepository{pool: pool}
}

func (r *postgresTokenRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *model.Token) error {
	q := `INSERT INTO tokens (id, user_id, digest, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, q, t.ID, t.UserID, t.Digest, t.CreatedAt); err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

func (r *postgresTokenRepository) DeleteByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (string, error) {
	var digest string
	err := tx.QueryRow(ctx, `DELETE FROM tokens WHERE user_id = $1 RETURNING digest`, userID).Scan(&digest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("delete token: %w", err)
	}
	return digest, nil
}

func (r *postgresTokenRepository) FindUserIDByDigest(ctx context.Context, digest string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM tokens WHERE digest = $1`, digest).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, model.ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("find token: %w", err)
	}
	return userID, nil
}
