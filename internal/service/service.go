package service

import (
	"context"
	"strings"

	"lostfound/internal/auth"
	apperrors "lostfound/internal/errors"
)

// currentUser returns the acting user carried by ctx.
func currentUser(ctx context.Context) (uint, error) {
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return 0, apperrors.ErrUnauthenticated
	}
	return id, nil
}

// blank reports whether s is empty after trimming whitespace.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
