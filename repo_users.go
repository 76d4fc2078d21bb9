package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type users struct {
	db     *bun.DB
	hasher func(string) (string, error)
	logger Logger
}

var _ UserDirectory = (*users)(nil)

// UsersOption customizes the bun backed directory
type UsersOption func(*users)

// WithPasswordHasher replaces the function used to hash new passwords
func WithPasswordHasher(hasher func(string) (string, error)) UsersOption {
	return func(u *users) {
		if hasher != nil {
			u.hasher = hasher
		}
	}
}

// WithUsersLogger sets the directory logger
func WithUsersLogger(logger Logger) UsersOption {
	return func(u *users) {
		u.logger = normalizeLogger(logger)
	}
}

// NewUsersRepository returns a UserDirectory backed by bun
func NewUsersRepository(db *bun.DB, opts ...UsersOption) UserDirectory {
	repo := &users{
		db:     db,
		hasher: HashPassword,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

// CreateSchema creates the users table when it does not exist
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

func (a *users) FindByID(ctx context.Context, id int64) (*User, error) {
	return a.findOne(ctx, "id", id)
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.findOne(ctx, "email", NormalizeEmail(email))
}

func (a *users) findOne(ctx context.Context, column string, value any) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user").
			WithMetadata(map[string]any{column: value})
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := a.hasher(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &User{
		UserName:     username,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			a.logger.Warn("user create conflict", "email", redactEmail(record.Email))
			return nil, ErrUserConflict
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return record, nil
}

func (a *users) ApplyUpdate(ctx context.Context, user *User, fields UserUpdate) (*User, error) {
	if user == nil {
		return nil, ErrIdentityNotFound
	}

	record := *user
	columns := make([]string, 0, 4)

	if fields.UserName != nil {
		record.UserName = *fields.UserName
		columns = append(columns, "user_name")
	}

	if fields.Email != nil {
		record.Email = NormalizeEmail(*fields.Email)
		columns = append(columns, "email")
	}

	if fields.Password != nil {
		hash, err := a.hasher(*fields.Password)
		if err != nil {
			return nil, err
		}
		record.PasswordHash = hash
		columns = append(columns, "password_hash")
	}

	now := time.Now()
	record.UpdatedAt = &now
	columns = append(columns, "updated_at")

	res, err := a.db.NewUpdate().
		Model(&record).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			a.logger.Warn("user update conflict", "id", record.ID)
			return nil, ErrUserConflict
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrIdentityNotFound
	}

	return &record, nil
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	var records []*User
	if err := a.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

// isUniqueViolation reads the sqlite extended result code when the driver
// exposes one and falls back to the message for other drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
