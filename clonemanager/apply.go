/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package clonemanager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// ApplyFiles writes the given path→content map into the worktree and stages
// every written file. Paths are validated so generated changes cannot escape
// the worktree root.
func ApplyFiles(wt *gogit.Worktree, files map[string]string) error {
	root := wt.Filesystem.Root()

	for path, content := range files {
		fullPath, err := validatePath(root, path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return fmt.Errorf("creating directories for %q: %w", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
		if _, err := wt.Add(filepath.ToSlash(filepath.Clean(path))); err != nil {
			return fmt.Errorf("staging %q: %w", path, err)
		}
	}
	return nil
}

// validatePath ensures path doesn't escape the worktree root.
func validatePath(root, path string) (string, error) {
	fullPath := filepath.Join(root, filepath.Clean(path))
	rel, err := filepath.Rel(root, fullPath)
	if err != nil {
		return "", fmt.Errorf("path %q: %w", path, err)
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q escapes worktree", path)
	}
	return fullPath, nil
}
