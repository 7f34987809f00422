package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status contains git exposure information for local files
type Status struct {
	IsRepo    bool
	Tracked   []string // Files tracked by git (bad)
	Unignored []string // Files not in .gitignore (warning)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// Check inspects each path from its own directory, so files outside any
// work tree are skipped.
func Check(paths []string) *Status {
	status := &Status{}
	for _, path := range paths {
		dir, name := filepath.Split(path)
		if dir == "" {
			dir = "."
		}
		if !IsGitRepo(dir) {
			continue
		}
		status.IsRepo = true

		if IsTracked(dir, name) {
			status.Tracked = append(status.Tracked, path)
		} else if !IsIgnored(dir, name) {
			status.Unignored = append(status.Unignored, path)
		}
	}
	return status
}

// Format renders status for display. It is empty outside a repository.
func Format(status *Status) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit:\n")

	for _, path := range status.Tracked {
		fmt.Fprintf(&result, "   error: %s is tracked by git (run: git rm --cached %s)\n", path, path)
	}
	for _, path := range status.Unignored {
		fmt.Fprintf(&result, "   warning: %s not in .gitignore\n", path)
	}
	if len(status.Tracked) == 0 && len(status.Unignored) == 0 {
		result.WriteString("   ok: local files are ignored by git\n")
	}

	return result.String()
}
