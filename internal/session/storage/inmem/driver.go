package inmem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/appealtrack/portal/internal/random"
	"github.com/appealtrack/portal/internal/session"
	"github.com/hashicorp/go-memdb"
)

var tokenLength = 64

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"sessions": {
			Name: "sessions",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Token"},
				},
				"expires": {
					Name:         "expires",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.IntFieldIndex{Field: "Expires"},
				},
			},
		},
	},
}

// Driver represents the in-memory session storage driver built using hashicorp/go-memdb
type Driver struct {
	db *memdb.MemDB
}

var _ session.Storage = (*Driver)(nil)

// New creates a new empty in-memory session storage driver
func New() (*Driver, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &Driver{db}, nil
}

// GetByRawToken retrieves a session by its raw (prior hashing) token
func (driver *Driver) GetByRawToken(_ context.Context, rawToken string) (*session.Record, error) {
	hash := hashToken(rawToken)

	txn := driver.db.Txn(false)
	obj, err := txn.First("sessions", "id", hash)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}

	record := obj.(*session.Record)
	if record.Expires <= time.Now().Unix() {
		return nil, nil
	}
	return record, nil
}

// Create creates a new session holding the given state and returns its raw token
func (driver *Driver) Create(_ context.Context, state *session.State, expires int64) (string, error) {
	rawToken := random.String(tokenLength, random.CharsetTokens)

	record := &session.Record{
		Token:   hashToken(rawToken),
		Expires: expires,
		State:   state,
	}

	txn := driver.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("sessions", record); err != nil {
		return "", err
	}
	txn.Commit()

	return rawToken, nil
}

// Update replaces the state of the session identified by the given raw token
func (driver *Driver) Update(_ context.Context, rawToken string, state *session.State) error {
	hash := hashToken(rawToken)

	txn := driver.db.Txn(true)
	defer txn.Abort()
	obj, err := txn.First("sessions", "id", hash)
	if err != nil {
		return err
	}
	if obj == nil {
		return nil
	}

	old := obj.(*session.Record)
	record := &session.Record{
		Token:   old.Token,
		Expires: old.Expires,
		State:   state,
	}
	if err := txn.Insert("sessions", record); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// TerminateByRawToken terminates a session by its raw token
func (driver *Driver) TerminateByRawToken(_ context.Context, rawToken string) error {
	txn := driver.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll("sessions", "id", hashToken(rawToken)); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// TerminateExpired terminates all sessions that are expired
func (driver *Driver) TerminateExpired(_ context.Context) (int, error) {
	txn := driver.db.Txn(true)
	defer txn.Abort()

	it, err := txn.LowerBound("sessions", "expires", 0)
	if err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	deleted := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		record := obj.(*session.Record)
		if record.Expires > now {
			break
		}
		if err := txn.Delete("sessions", record); err != nil {
			return 0, err
		}
		deleted++
	}

	txn.Commit()
	return deleted, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
