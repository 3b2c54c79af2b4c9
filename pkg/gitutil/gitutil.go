// Package gitutil reads the revision a report is produced from.
package gitutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/user/riskboard-go/internal/models"
)

// OpenRepository opens the git repository containing path. Parent
// directories are searched for .git, so any path inside a work tree works.
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// GetHeadCommit retrieves the commit object for the repository's HEAD.
func GetHeadCommit(repo *git.Repository) (*object.Commit, error) {
	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for HEAD (%s): %w", headRef.Hash(), err)
	}
	return commit, nil
}

// GetRepoRemoteURL retrieves the URL of the "origin" remote, falling back
// to the first configured remote.
func GetRepoRemoteURL(repo *git.Repository) (string, error) {
	remote, err := repo.Remote("origin")
	if err != nil {
		remotes, errList := repo.Remotes()
		if errList != nil || len(remotes) == 0 {
			return "", fmt.Errorf("failed to get 'origin' remote and no other remotes found: %w", err)
		}
		if len(remotes[0].Config().URLs) > 0 {
			return remotes[0].Config().URLs[0], nil
		}
		return "", errors.New("selected remote has no URLs")
	}
	if len(remote.Config().URLs) > 0 {
		return remote.Config().URLs[0], nil
	}
	return "", errors.New("'origin' remote has no URLs")
}

// GetRepoBranch returns the current branch name, or the HEAD SHA with a
// "(detached)" suffix when HEAD is not a branch.
func GetRepoBranch(repo *git.Repository, headCommit *object.Commit) (string, error) {
	headRef, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if headRef.Name().IsBranch() {
		return headRef.Name().Short(), nil
	}
	return headCommit.Hash.String() + " (detached)", nil
}

// Describe summarizes the HEAD revision of the repository containing path.
// A missing remote is not an error: URL is left empty.
func Describe(path string) (*models.Revision, error) {
	repo, err := OpenRepository(path)
	if err != nil {
		return nil, err
	}
	head, err := GetHeadCommit(repo)
	if err != nil {
		return nil, err
	}
	branch, err := GetRepoBranch(repo, head)
	if err != nil {
		return nil, err
	}
	url, _ := GetRepoRemoteURL(repo)

	return &models.Revision{
		URL:     url,
		Branch:  branch,
		SHA:     head.Hash.String(),
		Date:    head.Committer.When,
		Author:  fmt.Sprintf("%s (%s)", head.Author.Name, head.Author.Email),
		Subject: Subject(head),
	}, nil
}

// Subject returns the first line of a commit message.
func Subject(commit *object.Commit) string {
	return strings.TrimSpace(strings.SplitN(commit.Message, "\n", 2)[0])
}
