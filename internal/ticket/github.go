// Package ticket reports watchlist command results back through an issue
// tracker.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// ErrMissingIssue is returned when the repository or issue number is not configured.
var ErrMissingIssue = errors.New("issue repository and number are required")

// Reporter is the ticketing side channel for one issue.
type Reporter interface {
	// Body returns the issue text carrying the command.
	Body(ctx context.Context) (string, error)
	// Comment posts msg on the issue.
	Comment(ctx context.Context, msg string) error
	// Close closes the issue.
	Close(ctx context.Context) error
}

// GitHubReporter talks to one GitHub issue.
type GitHubReporter struct {
	client *github.Client
	owner  string
	repo   string
	number int
}

// NewGitHubReporter creates a reporter for issue number in repository
// "owner/repo", authenticated with token.
func NewGitHubReporter(ctx context.Context, token, repository string, number int) (*GitHubReporter, error) {
	var client *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		client = github.NewClient(nil)
	}
	return NewGitHubReporterWithClient(client, repository, number)
}

// NewGitHubReporterWithClient creates a reporter using an existing client.
func NewGitHubReporterWithClient(client *github.Client, repository string, number int) (*GitHubReporter, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || number <= 0 {
		return nil, fmt.Errorf("%w: repository=%q issue=%d", ErrMissingIssue, repository, number)
	}
	return &GitHubReporter{client: client, owner: owner, repo: repo, number: number}, nil
}

// Body fetches the issue body.
func (g *GitHubReporter) Body(ctx context.Context) (string, error) {
	issue, _, err := g.client.Issues.Get(ctx, g.owner, g.repo, g.number)
	if err != nil {
		return "", fmt.Errorf("get issue #%d: %w", g.number, err)
	}
	return issue.GetBody(), nil
}

// Comment posts a comment on the issue.
func (g *GitHubReporter) Comment(ctx context.Context, msg string) error {
	_, _, err := g.client.Issues.CreateComment(ctx, g.owner, g.repo, g.number, &github.IssueComment{
		Body: github.String(msg),
	})
	if err != nil {
		return fmt.Errorf("comment on issue #%d: %w", g.number, err)
	}
	return nil
}

// Close sets the issue state to closed.
func (g *GitHubReporter) Close(ctx context.Context) error {
	_, _, err := g.client.Issues.Edit(ctx, g.owner, g.repo, g.number, &github.IssueRequest{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("close issue #%d: %w", g.number, err)
	}
	return nil
}
