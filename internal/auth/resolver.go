package auth

import (
	"context"
	"strings"
)

// Resolver derives the candidate display name for a session. The
// engine never computes identity itself; this is the external identity
// collaborator behind a narrow interface.
type Resolver interface {
	NameFor(ctx context.Context, sessionID string) string
}

// ClaimsResolver resolves the name from the requester's token claims
// when present, else falls back to a deterministic placeholder derived
// from the session id.
type ClaimsResolver struct{}

// NameFor implements Resolver.
func (ClaimsResolver) NameFor(ctx context.Context, sessionID string) string {
	if claims, ok := ClaimsFrom(ctx); ok && claims.Email != "" {
		if local, _, found := strings.Cut(claims.Email, "@"); found && local != "" {
			return local
		}
	}
	return PlaceholderName(sessionID)
}

// PlaceholderName builds the anonymous display name for a session.
func PlaceholderName(sessionID string) string {
	suffix := sessionID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	if suffix == "" {
		return "Anonymous Candidate"
	}
	return "Candidate_" + suffix
}
