// Package publish pushes the generated site to version control.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Git commits and pushes the working tree of the site checkout. It shells out
// to the git binary; credentials and remotes come from the checkout itself.
type Git struct {
	workDir string
	logger  *zap.Logger
}

// NewGit creates a Git publisher rooted at the site checkout.
func NewGit(workDir string, logger *zap.Logger) (*Git, error) {
	if workDir == "" {
		return nil, fmt.Errorf("publish work directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Git{workDir: workDir, logger: logger}, nil
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.workDir}, args...)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// CommitAndPush stages everything, commits with the given message, and pushes.
// A clean working tree is not an error; the push is simply skipped.
func (g *Git) CommitAndPush(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	status, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		g.logger.Info("nothing to publish, working tree clean")
		return nil
	}

	if out, err := g.run(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w: %s", err, strings.TrimSpace(out))
	}
	if out, err := g.run(ctx, "push"); err != nil {
		return fmt.Errorf("git push: %w: %s", err, strings.TrimSpace(out))
	}

	g.logger.Info("site published", zap.String("message", message))
	return nil
}
