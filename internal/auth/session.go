package auth

import (
	"context"
	"fmt"

	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/repositories/metadata"
)

// Session answers "who is the current user" for the sync engine.
type Session interface {
	// CurrentUserID returns the authenticated user's id, or
	// common.ErrorUnauthorized when no valid token is stored.
	CurrentUserID(ctx context.Context) (string, error)
}

// TokenSession is a Session backed by an access token persisted in the local
// metadata store, so a login survives restarts.
type TokenSession struct {
	metadataRepo metadata.Repository
	secret       []byte
}

func NewTokenSession(metadataRepo metadata.Repository, secret []byte) *TokenSession {
	return &TokenSession{metadataRepo: metadataRepo, secret: secret}
}

// Login validates the token and persists it. Rejects tokens that do not
// verify, so a typo never silently breaks later sync passes.
func (s *TokenSession) Login(ctx context.Context, token string) (string, error) {
	userID, err := UserIDFromToken(token, s.secret)
	if err != nil {
		return "", err
	}
	if err := s.metadataRepo.Set(ctx, common.AccessTokenMetadataKey, []byte(token)); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}
	return userID, nil
}

// Logout drops the stored token.
func (s *TokenSession) Logout(ctx context.Context) error {
	return s.metadataRepo.Delete(ctx, common.AccessTokenMetadataKey)
}

func (s *TokenSession) CurrentUserID(ctx context.Context) (string, error) {
	token, err := s.metadataRepo.Get(ctx, common.AccessTokenMetadataKey)
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if len(token) == 0 {
		return "", common.ErrorUnauthorized
	}
	return UserIDFromToken(string(token), s.secret)
}
