// Package session holds the client's persisted session state: the bearer
// token, the authenticated user id and the pending OTP email for each
// purpose. Every slot is a plain string key in the local metadata table and
// follows overwrite-on-write semantics.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/repositories/metadata"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/dbx"
)

// Persisted keys.
const (
	KeyToken      = "token"
	KeyUserID     = "userId"
	KeyOTPEmail   = "otpEmail"
	KeyResetEmail = "resetEmail"
)

// PendingKey maps an OTP purpose to the slot holding its email.
func PendingKey(p models.Purpose) (string, error) {
	switch p {
	case models.PurposeLogin:
		return KeyOTPEmail, nil
	case models.PurposeReset:
		return KeyResetEmail, nil
	}
	return "", fmt.Errorf("unknown OTP purpose %q", p)
}

// Store is the session context shared by every service. It is created once
// per process and injected; nothing reads the slots behind its back.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Token returns the bearer token, or "" when there is no session.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, KeyToken)
}

// Identity returns the authenticated user. ok is false without a token.
func (s *Store) Identity(ctx context.Context) (id models.Identity, ok bool, err error) {
	vals, err := s.repo().List(ctx)
	if err != nil {
		return models.Identity{}, false, err
	}
	id = models.Identity{Token: vals[KeyToken], UserID: vals[KeyUserID]}
	return id, id.Token != "", nil
}

// PendingEmail returns the email awaiting OTP verification for p, or "".
func (s *Store) PendingEmail(ctx context.Context, p models.Purpose) (string, error) {
	key, err := PendingKey(p)
	if err != nil {
		return "", err
	}
	return s.repo().Get(ctx, key)
}

// SetPendingEmail overwrites the pending email for p. The other purpose's
// slot is never touched.
func (s *Store) SetPendingEmail(ctx context.Context, p models.Purpose, email string) error {
	key, err := PendingKey(p)
	if err != nil {
		return err
	}
	return s.repo().Set(ctx, key, email)
}

// ClearPendingEmail discards the pending email for p.
func (s *Store) ClearPendingEmail(ctx context.Context, p models.Purpose) error {
	key, err := PendingKey(p)
	if err != nil {
		return err
	}
	return s.repo().Delete(ctx, key)
}

// Establish persists grant as the current session. When consumed is non-empty
// the pending email for that purpose is cleared in the same transaction, so
// the slot is gone exactly when the session exists.
//
// A new token replaces the whole session. A grant without user id but with
// a JWT token falls back to the token's id claims; the signature and expiry
// are not checked here. A grant carrying neither leaves the slots as they are.
func (s *Store) Establish(ctx context.Context, grant models.SessionGrant, consumed models.Purpose) error {
	userID := grant.UserID
	if userID == "" {
		userID = UserIDFromToken(grant.Token)
	}

	var pendingKey string
	if consumed != "" {
		k, err := PendingKey(consumed)
		if err != nil {
			return err
		}
		pendingKey = k
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if grant.Token != "" {
			if err := repo.Set(ctx, KeyToken, grant.Token); err != nil {
				return err
			}
			if err := setOrDelete(ctx, repo, KeyUserID, userID); err != nil {
				return err
			}
		} else if userID != "" {
			if err := repo.Set(ctx, KeyUserID, userID); err != nil {
				return err
			}
		}
		if pendingKey != "" {
			return repo.Delete(ctx, pendingKey)
		}
		return nil
	})
}

func setOrDelete(ctx context.Context, repo metadata.Repository, key, value string) error {
	if value == "" {
		return repo.Delete(ctx, key)
	}
	return repo.Set(ctx, key, value)
}

// Clear drops the session and both pending emails.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo().Delete(ctx, KeyToken, KeyUserID, KeyOTPEmail, KeyResetEmail)
}

// UserIDFromToken reads the user id out of an unverified JWT. It looks at
// "id", "userId", "_id" and "sub" in that order and returns "" for opaque or
// malformed tokens.
func UserIDFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"id", "userId", "_id", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
