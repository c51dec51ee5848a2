// Package gateway provides adapters for the upstream services the API
// aggregates: the GitHub REST API and LeetCode's public GraphQL endpoint.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching a user's
// repository statistics from GitHub.
type Fetcher interface {
	// ListRepositories returns every repository owned by the user,
	// following pagination to the end.
	ListRepositories(ctx context.Context, user string) ([]domain.Repository, error)
	// CountPullRequests returns the number of pull requests (state=all) on
	// the first page of the listing. Pull request pagination is not
	// followed.
	CountPullRequests(ctx context.Context, owner, repo string) (int, error)
	// CountCommitsByAuthor counts commits whose author login equals author,
	// following pagination up to the configured page limit.
	CountCommitsByAuthor(ctx context.Context, owner, repo, author string) (int, error)
	// LookupUser checks that the user exists and returns the upstream HTTP
	// status code alongside any error, so callers can pass the status
	// through.
	LookupUser(ctx context.Context, user string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client          *github.Client
	logger          *slog.Logger
	pageSize        int
	commitPageLimit int
}

// Option tweaks gateway bounds that config and tests need to control.
type Option func(*GitHubGateway)

// WithPageSize sets the per-page size used on every paged listing.
func WithPageSize(n int) Option {
	return func(g *GitHubGateway) { g.pageSize = n }
}

// WithCommitPageLimit bounds how many pages of commits are fetched per
// repository.
func WithCommitPageLimit(n int) Option {
	return func(g *GitHubGateway) { g.commitPageLimit = n }
}

// NewGitHubGateway builds a gateway whose client authenticates with the
// given bearer token and waits out secondary rate limits.
func NewGitHubGateway(token string, logger *slog.Logger, opts ...Option) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return newGateway(github.NewClient(httpClient), logger, opts...), nil
}

func newGateway(client *github.Client, logger *slog.Logger, opts ...Option) *GitHubGateway {
	g := &GitHubGateway{
		client:          client,
		logger:          logger,
		pageSize:        100,
		commitPageLimit: 3,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GitHubGateway) ListRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: g.pageSize},
	}
	var repos []domain.Repository
	for {
		page, resp, err := g.client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", user, err)
		}
		for _, r := range page {
			repos = append(repos, domain.Repository{
				Name:  r.GetName(),
				Stars: r.GetStargazersCount(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("fetching next page of repositories", slog.Int("page", resp.NextPage))
	}
	return repos, nil
}

func (g *GitHubGateway) CountPullRequests(ctx context.Context, owner, repo string) (int, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: g.pageSize},
	}
	// First page only. Repos with more than one page of PRs undercount.
	pulls, _, err := g.client.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, repo, err)
	}
	return len(pulls), nil
}

func (g *GitHubGateway) CountCommitsByAuthor(ctx context.Context, owner, repo, author string) (int, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: g.pageSize},
	}
	count := 0
	for page := 1; ; page++ {
		commits, resp, err := g.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return 0, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, err)
		}
		for _, c := range commits {
			if c.GetAuthor().GetLogin() == author {
				count++
			}
		}
		if resp.NextPage == 0 || page >= g.commitPageLimit {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("fetching next page of commits",
			slog.String("repo", repo), slog.Int("page", resp.NextPage))
	}
	return count, nil
}

func (g *GitHubGateway) LookupUser(ctx context.Context, user string) (int, error) {
	_, resp, err := g.client.Users.Get(ctx, user)
	if err != nil {
		status := http.StatusInternalServerError
		if resp != nil {
			status = resp.StatusCode
		}
		return status, fmt.Errorf("failed to look up user %s: %w", user, err)
	}
	return resp.StatusCode, nil
}
