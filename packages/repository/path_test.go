package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRepoPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/foo/bar", "foo/bar"},
		{"https://github.com/foo/bar/", "foo/bar"},
		{"https://github.com/foo/bar//", "foo/bar"},
		{"https://github.com/foo/bar.git", "foo/bar"},
		{"  https://github.com/foo/bar  ", "foo/bar"},
		{"foo/bar", "foo/bar"},
		{"github.com/foo/bar", "foo/bar"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractRepoPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRepoPathInvalid(t *testing.T) {
	for _, url := range []string{
		"",
		"bar",
		"https://github.com",
		"https://github.com/",
		"https://github.com/foo",
	} {
		t.Run(url, func(t *testing.T) {
			_, err := ExtractRepoPath(url)
			assert.ErrorIs(t, err, ErrInvalidRepoURL)
		})
	}
}

func TestParseRepoRef(t *testing.T) {
	ref, err := ParseRepoRef("https://github.com/golang/go")
	require.NoError(t, err)
	assert.Equal(t, "golang", ref.Owner)
	assert.Equal(t, "go", ref.Name)
	assert.Equal(t, "golang/go", ref.String())
}
