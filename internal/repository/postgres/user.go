package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"rating-tracker/internal/common/database"
	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/models"
)

// UserRepository is the Postgres-backed user store.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(client *database.PostgresClient) *UserRepository {
	return &UserRepository{db: client.GetDB()}
}

// NewUserRepositoryFromDB wires an existing *sql.DB (used by tests with sqlmock).
func NewUserRepositoryFromDB(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, codeforces_handle, leetcode_handle, codechef_handle,
	codeforces_rating, codeforces_problems_solved, leetcode_rating, leetcode_problems_solved,
	codechef_rating, codechef_problems_solved, total_score, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, codeforces_handle, leetcode_handle, codechef_handle,
			codeforces_rating, codeforces_problems_solved, leetcode_rating, leetcode_problems_solved,
			codechef_rating, codechef_problems_solved, total_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		user.ID, user.Name, user.Email,
		user.CodeforcesHandle, user.LeetcodeHandle, user.CodechefHandle,
		user.Snapshot.CodeforcesRating, user.Snapshot.CodeforcesProblemsSolved,
		user.Snapshot.LeetcodeRating, user.Snapshot.LeetcodeProblemsSolved,
		user.Snapshot.CodechefRating, user.Snapshot.CodechefProblemsSolved,
		user.Snapshot.TotalScore, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return errors.NewPersistenceFailedError("create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return r.scanUser(row, email)
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, codeforces_handle = $3, leetcode_handle = $4, codechef_handle = $5, updated_at = $6
		WHERE id = $1`,
		user.ID, user.Name, user.CodeforcesHandle, user.LeetcodeHandle, user.CodechefHandle, user.UpdatedAt,
	)
	if err != nil {
		return errors.NewPersistenceFailedError("update user", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.NewUserNotFoundError(user.ID)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY total_score DESC`)
	if err != nil {
		return nil, errors.NewPersistenceFailedError("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email,
			&u.CodeforcesHandle, &u.LeetcodeHandle, &u.CodechefHandle,
			&u.Snapshot.CodeforcesRating, &u.Snapshot.CodeforcesProblemsSolved,
			&u.Snapshot.LeetcodeRating, &u.Snapshot.LeetcodeProblemsSolved,
			&u.Snapshot.CodechefRating, &u.Snapshot.CodechefProblemsSolved,
			&u.Snapshot.TotalScore, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, errors.NewPersistenceFailedError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceFailedError("list users", err)
	}
	return users, nil
}

// UpdateSnapshot writes all seven snapshot fields in one statement.
func (r *UserRepository) UpdateSnapshot(ctx context.Context, id string, snap models.RatingSnapshot) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET codeforces_rating = $2, codeforces_problems_solved = $3,
			leetcode_rating = $4, leetcode_problems_solved = $5,
			codechef_rating = $6, codechef_problems_solved = $7,
			total_score = $8, updated_at = $9
		WHERE id = $1`,
		id,
		snap.CodeforcesRating, snap.CodeforcesProblemsSolved,
		snap.LeetcodeRating, snap.LeetcodeProblemsSolved,
		snap.CodechefRating, snap.CodechefProblemsSolved,
		snap.TotalScore, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewPersistenceFailedError("update snapshot", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.NewUserNotFoundError(id)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row, key string) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email,
		&u.CodeforcesHandle, &u.LeetcodeHandle, &u.CodechefHandle,
		&u.Snapshot.CodeforcesRating, &u.Snapshot.CodeforcesProblemsSolved,
		&u.Snapshot.LeetcodeRating, &u.Snapshot.LeetcodeProblemsSolved,
		&u.Snapshot.CodechefRating, &u.Snapshot.CodechefProblemsSolved,
		&u.Snapshot.TotalScore, &u.CreatedAt, &u.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewUserNotFoundError(key)
	}
	if err != nil {
		return nil, errors.NewPersistenceFailedError("get user", err)
	}
	return &u, nil
}
