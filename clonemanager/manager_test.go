/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package clonemanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestLeaseLifecycle(t *testing.T) {
	ctx := context.Background()

	mgr, err := New(ctx, staticTokenSource(""), "joe-gemini")
	require.NoError(t, err, "failed to create manager")

	repoDir, headHash := initTestRepo(t)

	res := &reconcilers.Resource{
		Owner: "tests",
		Repo:  repoDir,
		Type:  reconcilers.ResourceTypeIssue,
	}

	repoURL = func(*reconcilers.Resource) string { return repoDir }
	t.Cleanup(func() { repoURL = defaultRemoteURL })

	lease, err := mgr.Lease(ctx, res, "master")
	require.NoError(t, err, "failed to lease clone")
	require.Equal(t, headHash, lease.SHA(), "leased clone is not at the remote head")

	workingDir := lease.WorkingTree()
	require.NotEqual(t, repoDir, workingDir, "working dir should differ from remote")

	// Leave a stray file behind to confirm the next lease starts clean.
	scratch := filepath.Join(workingDir, "scratch.txt")
	require.NoError(t, os.WriteFile(scratch, []byte("temporary"), 0o644))

	require.NoError(t, lease.Return(ctx), "failed to return lease")

	lease2, err := mgr.Lease(ctx, res, "master")
	require.NoError(t, err, "failed to lease again")
	require.Equal(t, workingDir, lease2.WorkingTree(), "expected the clone to be reused")

	_, err = os.Stat(scratch)
	require.ErrorIs(t, err, os.ErrNotExist, "expected scratch file to be cleaned")

	require.NoError(t, lease2.Return(ctx))
}

func TestMakeAndPushChanges(t *testing.T) {
	ctx := context.Background()

	mgr, err := New(ctx, staticTokenSource(""), "joe-gemini")
	require.NoError(t, err, "failed to create manager")

	repoDir, _ := initTestRepo(t)

	res := &reconcilers.Resource{
		Owner: "tests",
		Repo:  repoDir,
		Type:  reconcilers.ResourceTypeIssue,
	}

	repoURL = func(*reconcilers.Resource) string { return repoDir }
	t.Cleanup(func() { repoURL = defaultRemoteURL })

	lease, err := mgr.Lease(ctx, res, "master")
	require.NoError(t, err, "failed to lease clone")

	branchName := "joe-gemini/fix-1-1700000000"

	err = lease.MakeAndPushChanges(ctx, branchName, func(_ context.Context, wt *git.Worktree) (string, error) {
		if err := ApplyFiles(wt, map[string]string{
			"packages/bar.yaml": "name: bar",
		}); err != nil {
			return "", err
		}
		return "add bar", nil
	})
	require.NoError(t, err, "failed to make and push changes")
	require.NoError(t, lease.Return(ctx))

	originRepo, err := git.PlainOpen(repoDir)
	require.NoError(t, err, "failed to open origin")

	_, err = originRepo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	require.NoError(t, err, "expected pushed branch to exist on origin")
}

func TestApplyFilesRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()

	mgr, err := New(ctx, staticTokenSource(""), "joe-gemini")
	require.NoError(t, err, "failed to create manager")

	repoDir, _ := initTestRepo(t)

	res := &reconcilers.Resource{
		Owner: "tests",
		Repo:  repoDir,
		Type:  reconcilers.ResourceTypeIssue,
	}

	repoURL = func(*reconcilers.Resource) string { return repoDir }
	t.Cleanup(func() { repoURL = defaultRemoteURL })

	lease, err := mgr.Lease(ctx, res, "master")
	require.NoError(t, err, "failed to lease clone")
	t.Cleanup(func() { _ = lease.Return(ctx) })

	err = lease.MakeAndPushChanges(ctx, "joe-gemini/escape", func(_ context.Context, wt *git.Worktree) (string, error) {
		return "escape", ApplyFiles(wt, map[string]string{
			"../outside.txt": "nope",
		})
	})
	require.Error(t, err, "paths escaping the worktree must be rejected")
}

func initTestRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "failed to init repo")

	wt, err := repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	pkgDir := filepath.Join(dir, "packages")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))

	file := filepath.Join(pkgDir, "foo.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: foo"), 0o644))

	_, err = wt.Add("packages/foo.yaml")
	require.NoError(t, err, "failed to stage file")

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to commit")

	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("master"))))

	return dir, hash.String()
}

type staticTokenSource string

func (s staticTokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: string(s)}, nil
}
