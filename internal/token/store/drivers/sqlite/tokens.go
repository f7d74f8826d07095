package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store"
)

const tokenColumns = `value, not_before, not_after, used, used_max, keepalive_ns, username, permissions`

type tokenRow struct {
	Value       string
	NotBefore   time.Time
	NotAfter    sql.NullTime
	Used        int64
	UsedMax     sql.NullInt64
	KeepaliveNs sql.NullInt64
	Username    sql.NullString
	Permissions string
}

func scanToken(row interface{ Scan(...any) error }) (tokenRow, error) {
	var r tokenRow
	err := row.Scan(
		&r.Value,
		&r.NotBefore,
		&r.NotAfter,
		&r.Used,
		&r.UsedMax,
		&r.KeepaliveNs,
		&r.Username,
		&r.Permissions,
	)
	return r, err
}

func mapToken(r tokenRow) domain.TokenRecord {
	return domain.TokenRecord{
		Credential: domain.TokenCredential{
			Value:     r.Value,
			NotBefore: r.NotBefore,
			NotAfter:  mapNullTimePtr(r.NotAfter),
			Used:      int(r.Used),
			UsedMax:   mapNullIntPtr(r.UsedMax),
			Keepalive: mapNullDurationPtr(r.KeepaliveNs),
		},
		Username:    mapNullString(r.Username),
		Permissions: splitPermissions(r.Permissions),
	}
}

// Add registers a new token record.
func (s *Store) Add(ctx context.Context, rec domain.TokenRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO login_tokens (`+tokenColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Credential.Value,
		rec.Credential.NotBefore,
		mapOptionalTime(rec.Credential.NotAfter),
		rec.Credential.Used,
		mapOptionalInt(rec.Credential.UsedMax),
		mapOptionalDuration(rec.Credential.Keepalive),
		mapStringNull(rec.Username),
		joinPermissions(rec.Permissions),
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// Update replaces the record for an existing token. The current usage count
// is checked inside a transaction so it can never regress under concurrency.
func (s *Store) Update(ctx context.Context, rec domain.TokenRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	var used int64
	err = tx.QueryRowContext(ctx,
		`SELECT used FROM login_tokens WHERE value = ?`, rec.Credential.Value,
	).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	if int64(rec.Credential.Used) < used {
		return store.ErrInvalidUpdate
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE login_tokens
		SET not_before = ?, not_after = ?, used = ?, used_max = ?,
		    keepalive_ns = ?, username = ?, permissions = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE value = ?`,
		rec.Credential.NotBefore,
		mapOptionalTime(rec.Credential.NotAfter),
		rec.Credential.Used,
		mapOptionalInt(rec.Credential.UsedMax),
		mapOptionalDuration(rec.Credential.Keepalive),
		mapStringNull(rec.Username),
		joinPermissions(rec.Permissions),
		rec.Credential.Value,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Find looks up a record, returning (nil, nil) when absent.
func (s *Store) Find(ctx context.Context, value string) (*domain.TokenRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM login_tokens WHERE value = ?`, value)

	r, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec := mapToken(r)
	return &rec, nil
}

// Get looks up a record, returning store.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, value string) (*domain.TokenRecord, error) {
	rec, err := s.Find(ctx, value)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite surfaces constraint failures as formatted error
	// strings rather than typed errors.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
