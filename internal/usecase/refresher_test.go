package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListRepositories(ctx context.Context, user string) ([]domain.Repository, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockFetcher) CountPullRequests(ctx context.Context, owner, repo string) (int, error) {
	args := m.Called(ctx, owner, repo)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) CountCommitsByAuthor(ctx context.Context, owner, repo, author string) (int, error) {
	args := m.Called(ctx, owner, repo, author)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) LookupUser(ctx context.Context, user string) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

// mockStore is a mock implementation of the SnapshotStore interface.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, snap *domain.StatsSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *mockStore) Load(ctx context.Context) (*domain.StatsSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatsSnapshot), args.Error(1)
}

func TestRefresher_Refresh(t *testing.T) {
	testCases := []struct {
		name          string
		repos         []domain.Repository
		pulls         map[string]int
		commits       map[string]int
		listErr       error
		pullErr       error
		commitErr     error
		saveErr       error
		expected      *domain.StatsSnapshot
		expectError   bool
		expectPersist bool
	}{
		{
			name: "happy path - accumulates counts across repositories",
			repos: []domain.Repository{
				{Name: "repo-a", Stars: 2},
				{Name: "repo-b", Stars: 3},
			},
			pulls:         map[string]int{"repo-a": 1, "repo-b": 2},
			commits:       map[string]int{"repo-a": 4, "repo-b": 6},
			expected:      &domain.StatsSnapshot{Repos: 2, Commits: 10, Pulls: 3, Stars: 5},
			expectPersist: true,
		},
		{
			name:          "empty account persists an all-zero snapshot",
			repos:         []domain.Repository{},
			expected:      &domain.StatsSnapshot{},
			expectPersist: true,
		},
		{
			name:        "repository listing failure aborts before any persist",
			listErr:     errors.New("github api error"),
			expectError: true,
		},
		{
			name: "per-repo commit failure discards the whole job",
			repos: []domain.Repository{
				{Name: "repo-a", Stars: 2},
			},
			pulls:       map[string]int{"repo-a": 1},
			commitErr:   errors.New("github api error"),
			expectError: true,
		},
		{
			name: "store failure surfaces as job failure",
			repos: []domain.Repository{
				{Name: "repo-a", Stars: 1},
			},
			pulls:         map[string]int{"repo-a": 0},
			commits:       map[string]int{"repo-a": 0},
			saveErr:       errors.New("disk full"),
			expected:      &domain.StatsSnapshot{Repos: 1, Stars: 1},
			expectError:   true,
			expectPersist: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			fetcher := new(mockFetcher)
			snapshots := new(mockStore)

			fetcher.On("ListRepositories", mock.Anything, "moon").Return(tc.repos, tc.listErr)
			for _, repo := range tc.repos {
				fetcher.On("CountPullRequests", mock.Anything, "moon", repo.Name).
					Return(tc.pulls[repo.Name], tc.pullErr)
				fetcher.On("CountCommitsByAuthor", mock.Anything, "moon", repo.Name, "moon").
					Return(tc.commits[repo.Name], tc.commitErr).Maybe()
			}
			if tc.expectPersist {
				snapshots.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.StatsSnapshot) bool {
					return s.Repos == tc.expected.Repos &&
						s.Commits == tc.expected.Commits &&
						s.Pulls == tc.expected.Pulls &&
						s.Stars == tc.expected.Stars &&
						!s.RefreshedAt.IsZero()
				})).Return(tc.saveErr).Once()
			}

			refresher := NewRefresher(fetcher, snapshots, sl.Discard())
			snap, err := refresher.Refresh(ctx, "moon")

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, snap)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected.Repos, snap.Repos)
				assert.Equal(t, tc.expected.Commits, snap.Commits)
				assert.Equal(t, tc.expected.Pulls, snap.Pulls)
				assert.Equal(t, tc.expected.Stars, snap.Stars)
			}
			if !tc.expectPersist {
				snapshots.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			}
			fetcher.AssertExpectations(t)
			snapshots.AssertExpectations(t)
		})
	}
}
