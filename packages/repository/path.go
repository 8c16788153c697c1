package repository

import (
	"errors"
	"fmt"
	"strings"

	"codesensei/types"
)

// ErrInvalidRepoURL is returned when a URL does not end in owner/name.
var ErrInvalidRepoURL = errors.New("invalid repository URL")

// ExtractRepoPath returns "owner/name" taken from the last two path segments
// of url. Trailing slashes and a ".git" suffix are tolerated.
func ExtractRepoPath(url string) (string, error) {
	ref, err := ParseRepoRef(url)
	if err != nil {
		return "", err
	}
	return ref.String(), nil
}

// ParseRepoRef is ExtractRepoPath returning a RepositoryRef.
func ParseRepoRef(url string) (types.RepositoryRef, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return types.RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, url)
	}
	owner, name := parts[len(parts)-2], parts[len(parts)-1]
	// Owners never contain dots or colons, so a host or scheme in that slot means
	// the URL had fewer than two path segments.
	if owner == "" || name == "" || strings.ContainsAny(owner, ".:") {
		return types.RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, url)
	}
	return types.RepositoryRef{Owner: owner, Name: name}, nil
}
