package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/margdarshak/margdarshak/db"
)

// newUserFromStmt creates a User struct from a SQLite statement
func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	otpExpires, err := db.TimeParse(stmt.GetText("otp_expires"))
	if err != nil {
		return nil, fmt.Errorf("error parsing otp_expires time: %w", err)
	}

	return &db.User{
		ID:         stmt.GetText("id"),
		Name:       stmt.GetText("name"),
		Password:   stmt.GetText("password"),
		Otp:        stmt.GetText("otp"),
		OtpExpires: otpExpires,
		Verified:   stmt.GetInt64("verified") != 0,
		Avatar:     stmt.GetText("avatar"),
		Email:      stmt.GetText("email"),
		Created:    created,
		Updated:    updated,
	}, nil
}

const userColumns = `id, name, email, password, otp, otp_expires, verified, avatar, created, updated`

// GetUserByEmail retrieves a user by email address.
// Returns:
// - *db.User: User record if found, nil if no matching record exists
// - returned time fields are in UTC, RFC3339
// - error: Only returned for database errors, nil on successful query (even if no results)
// Note: A nil user with nil error indicates no matching record was found
func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User // Will remain nil if no rows found
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{email},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{id},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUserWithOtp inserts an unverified user with a pending OTP
// challenge. The email uniqueness decision happens inside the statement:
// a conflicting row survives unless it is unverified with an expired
// challenge, in which case the new registration overwrites it in place.
// The concurrent-registration race is therefore resolved by SQLite, not
// by a read-then-write in the caller.
func (d *Db) CreateUserWithOtp(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser *db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, name, email, password, otp, otp_expires, verified, avatar)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(email) DO UPDATE SET
			id = excluded.id,
			name = excluded.name,
			password = excluded.password,
			otp = excluded.otp,
			otp_expires = excluded.otp_expires,
			avatar = excluded.avatar,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE users.verified = 0 AND users.otp_expires < ?
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				createdUser, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				uuid.NewString(),               // 1. id
				user.Name,                      // 2. name
				user.Email,                     // 3. email
				user.Password,                  // 4. password
				user.Otp,                       // 5. otp
				db.TimeFormat(user.OtpExpires), // 6. otp_expires
				user.Avatar,                    // 7. avatar
				db.TimeFormat(time.Now()),      // 8. expiry cutoff for the stale-row takeover
			},
		})

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// No RETURNING row means the conflict target was a live account: the
	// DO UPDATE guard rejected the overwrite and nothing was written.
	if createdUser == nil {
		return nil, db.ErrConstraintUnique
	}

	return createdUser, nil
}

// MarkVerified flips the verified flag and clears the challenge in a
// single guarded statement. The guard re-checks code and expiry so that
// concurrent attempts or a replayed code cannot verify twice.
func (d *Db) MarkVerified(userID, otp string, now time.Time) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users
		SET verified = 1,
			otp = '',
			otp_expires = '',
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ? AND verified = 0 AND otp != '' AND otp = ? AND otp_expires >= ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{userID, otp, db.TimeFormat(now)},
		})
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	if conn.Changes() == 0 {
		return db.ErrUserNotFound
	}
	return nil
}

// UpdateProfile applies the allow-listed mutable fields. An empty avatar
// keeps the stored one.
func (d *Db) UpdateProfile(userID, name, avatar string) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var updated *db.User
	err = sqlitex.Execute(conn,
		`UPDATE users
		SET name = ?,
			avatar = IIF(? = '', avatar, ?),
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				updated, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{name, avatar, avatar, userID},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if updated == nil {
		return nil, db.ErrUserNotFound
	}
	return updated, nil
}

// PurgeUnverified removes unverified accounts whose challenge expired
// before the cutoff. Verified accounts and pending challenges survive.
func (d *Db) PurgeUnverified(cutoff time.Time) (int64, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM users
		WHERE verified = 0 AND otp_expires != '' AND otp_expires < ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{db.TimeFormat(cutoff)},
		})
	if err != nil {
		return 0, fmt.Errorf("failed to purge unverified users: %w", err)
	}

	return int64(conn.Changes()), nil
}
