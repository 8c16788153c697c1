package repository

import (
	"context"
	"log/slog"
)

const (
	EntryTypeFile = "file"
	EntryTypeDir  = "dir"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Path string
	Type string
}

func (e Entry) IsDir() bool { return e.Type == EntryTypeDir }

// ListFunc fetches the listing of the directory at path.
type ListFunc func(ctx context.Context, path string) ([]Entry, error)

type WalkOptions struct {
	MaxDepth int
	MaxFiles int
}

// DefaultWalkOptions matches the limits used by /api/analyze.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{MaxDepth: 3, MaxFiles: 100}
}

// Skipped records a directory whose listing could not be fetched.
type Skipped struct {
	Path string
	Err  error
}

// Listing is the result of a bounded walk. Files holds at most MaxFiles
// paths in depth-first pre-order; Skipped holds subtrees that were dropped.
type Listing struct {
	Files   []string
	Skipped []Skipped
}

// WalkTree lists file paths below root without descending past MaxDepth or
// collecting more than MaxFiles paths. The budget is spent greedily in source
// order, so an early subtree can exhaust it before later siblings are visited.
// Directories that fail to list are recorded in Skipped and the walk continues.
func WalkTree(ctx context.Context, list ListFunc, root []Entry, opts WalkOptions) Listing {
	w := &walker{list: list, maxDepth: opts.MaxDepth}
	files := w.walk(ctx, root, "", opts.MaxFiles, 0)
	return Listing{Files: files, Skipped: w.skipped}
}

type walker struct {
	list     ListFunc
	maxDepth int
	skipped  []Skipped
}

func (w *walker) walk(ctx context.Context, entries []Entry, prefix string, maxFiles, depth int) []string {
	files := []string{}
	if depth >= w.maxDepth {
		return files
	}

	for _, entry := range entries {
		if len(files) >= maxFiles {
			break
		}

		if !entry.IsDir() {
			files = append(files, prefix+"/"+entry.Name)
			continue
		}

		if depth >= w.maxDepth-1 {
			continue
		}
		children, err := w.list(ctx, entry.Path)
		if err != nil {
			slog.Warn("Skipping directory", "path", entry.Path, "error", err)
			w.skipped = append(w.skipped, Skipped{Path: entry.Path, Err: err})
			continue
		}
		files = append(files, w.walk(ctx, children, prefix+"/"+entry.Name, maxFiles-len(files), depth+1)...)
	}

	return files
}
