package gitutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// Helper function to create a temporary git repository for testing
func createTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repoPath := t.TempDir()

	runGit(t, repoPath, "init")
	runGit(t, repoPath, "symbolic-ref", "HEAD", "refs/heads/main")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "user.email", "test@example.com")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")
	return repoPath
}

func commitFile(t *testing.T, repoPath, name, content, msg string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	runGit(t, repoPath, "add", name)
	runGit(t, repoPath, "commit", "-m", msg)
}

func TestOpenRepository(t *testing.T) {
	repoPath := createTestRepo(t)

	repo, err := OpenRepository(repoPath)
	if err != nil || repo == nil {
		t.Fatalf("OpenRepository() = %v, %v", repo, err)
	}

	sub := filepath.Join(repoPath, "docs", "reports")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if _, err := OpenRepository(sub); err != nil {
		t.Errorf("OpenRepository(subdir) error = %v", err)
	}

	if _, err := OpenRepository(t.TempDir()); err == nil {
		t.Errorf("OpenRepository() expected error outside a repository, got nil")
	}
}

func TestDescribe(t *testing.T) {
	repoPath := createTestRepo(t)
	commitFile(t, repoPath, "a.txt", "one", "Initial commit\n\nbody")
	runGit(t, repoPath, "remote", "add", "origin", "https://example.com/acme/riskboard.git")
	sha := runGit(t, repoPath, "rev-parse", "HEAD")

	rev, err := Describe(repoPath)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if rev.SHA != sha {
		t.Errorf("SHA = %s, want %s", rev.SHA, sha)
	}
	if rev.Branch != "main" {
		t.Errorf("Branch = %s, want main", rev.Branch)
	}
	if rev.URL != "https://example.com/acme/riskboard.git" {
		t.Errorf("URL = %s", rev.URL)
	}
	if rev.Author != "Test User (test@example.com)" {
		t.Errorf("Author = %s", rev.Author)
	}
	if rev.Date.IsZero() {
		t.Errorf("Date is zero")
	}
	if rev.Subject != "Initial commit" {
		t.Errorf("Subject = %q, want the first message line", rev.Subject)
	}

	repo, _ := OpenRepository(repoPath)
	head, _ := GetHeadCommit(repo)
	if got := Subject(head); got != "Initial commit" {
		t.Errorf("Subject() = %q", got)
	}
}

func TestDescribe_NoRemoteDetached(t *testing.T) {
	repoPath := createTestRepo(t)
	commitFile(t, repoPath, "a.txt", "one", "commit1")
	commitFile(t, repoPath, "b.txt", "two", "commit2")
	first := runGit(t, repoPath, "rev-parse", "HEAD~1")
	runGit(t, repoPath, "checkout", "--detach", first)

	rev, err := Describe(repoPath)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if rev.URL != "" {
		t.Errorf("URL = %q, want empty without remotes", rev.URL)
	}
	if rev.Branch != first+" (detached)" {
		t.Errorf("Branch = %q, want detached SHA", rev.Branch)
	}
}

func TestDescribe_EmptyRepository(t *testing.T) {
	repoPath := createTestRepo(t)
	if _, err := Describe(repoPath); err == nil {
		t.Errorf("Describe() on a repository without commits expected an error")
	}
}
