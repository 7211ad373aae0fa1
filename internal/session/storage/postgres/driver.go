package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/appealtrack/portal/internal/random"
	"github.com/appealtrack/portal/internal/session"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

var tokenLength = 64

// Driver represents the PostgreSQL session storage driver implementation
type Driver struct {
	dsn string
	db  *pgxpool.Pool
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty PostgreSQL session storage driver.
// Use Initialize to open the database connection and migrate the schema.
func New(dsn string) *Driver {
	return &Driver{
		dsn: dsn,
	}
}

// Initialize opens the database connection and migrates the database
func (driver *Driver) Initialize(ctx context.Context) error {
	// Perform SQL migrations
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, driver.dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Initialize the database connection pool
	pool, err := pgxpool.Connect(ctx, driver.dsn)
	if err != nil {
		return err
	}
	driver.db = pool

	return nil
}

// selectSessionQuery builds the query fetching a live session by its hashed token
func selectSessionQuery(tokenHash string, now int64) (string, []interface{}, error) {
	return squirrel.Select("token", "expires", "state").
		From("sessions").
		Where(squirrel.Eq{"token": tokenHash}).
		Where(squirrel.Gt{"expires": now}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// updateSessionQuery builds the query replacing the state of a session by its hashed token
func updateSessionQuery(tokenHash string, rawState []byte) (string, []interface{}, error) {
	return squirrel.Update("sessions").
		Set("state", rawState).
		Where(squirrel.Eq{"token": tokenHash}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// GetByRawToken retrieves a session by its raw (prior hashing) token
func (driver *Driver) GetByRawToken(ctx context.Context, rawToken string) (*session.Record, error) {
	sql, vals, err := selectSessionQuery(hashToken(rawToken), time.Now().Unix())
	if err != nil {
		return nil, err
	}

	record := new(session.Record)
	var rawState []byte
	if err := driver.db.QueryRow(ctx, sql, vals...).Scan(&record.Token, &record.Expires, &rawState); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record.State = new(session.State)
	if err := json.Unmarshal(rawState, record.State); err != nil {
		return nil, err
	}
	return record, nil
}

// Create creates a new session holding the given state and returns its raw token
func (driver *Driver) Create(ctx context.Context, state *session.State, expires int64) (string, error) {
	rawState, err := json.Marshal(state)
	if err != nil {
		return "", err
	}

	rawToken := random.String(tokenLength, random.CharsetTokens)
	_, err = driver.db.Exec(ctx, "INSERT INTO sessions VALUES ($1, $2, $3)", hashToken(rawToken), expires, rawState)
	if err != nil {
		return "", err
	}
	return rawToken, nil
}

// Update replaces the state of the session identified by the given raw token
func (driver *Driver) Update(ctx context.Context, rawToken string, state *session.State) error {
	rawState, err := json.Marshal(state)
	if err != nil {
		return err
	}

	sql, vals, err := updateSessionQuery(hashToken(rawToken), rawState)
	if err != nil {
		return err
	}
	_, err = driver.db.Exec(ctx, sql, vals...)
	return err
}

// TerminateByRawToken terminates a session by its raw token
func (driver *Driver) TerminateByRawToken(ctx context.Context, rawToken string) error {
	_, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", hashToken(rawToken))
	return err
}

// TerminateExpired terminates all sessions that are expired
func (driver *Driver) TerminateExpired(ctx context.Context) (int, error) {
	tag, err := driver.db.Exec(ctx, "DELETE FROM sessions WHERE expires <= $1", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Close closes the database connection
func (driver *Driver) Close() {
	driver.db.Close()
	driver.db = nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
