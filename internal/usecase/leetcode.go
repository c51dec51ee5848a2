package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codefolio/portfolio-stats-api/internal/domain"
	"github.com/codefolio/portfolio-stats-api/internal/gateway"
)

// The upstream difficulty arrays are positional: 0=all, 1=easy, 2=medium,
// 3=hard.
const (
	bucketAll = iota
	bucketEasy
	bucketMedium
	bucketHard
	bucketCount
)

// LeetcodeService maps a user's raw LeetCode progress into the API's named
// summary shape.
type LeetcodeService struct {
	fetcher gateway.LeetcodeFetcher
	logger  *slog.Logger

	// mockRanking substitutes placeholderRanking for the live profile
	// ranking, matching deployments where the ranking query is not trusted.
	mockRanking        bool
	placeholderRanking int
}

// NewLeetcodeService creates a new LeetcodeService instance.
func NewLeetcodeService(fetcher gateway.LeetcodeFetcher, logger *slog.Logger, mockRanking bool, placeholderRanking int) *LeetcodeService {
	return &LeetcodeService{
		fetcher:            fetcher,
		logger:             logger,
		mockRanking:        mockRanking,
		placeholderRanking: placeholderRanking,
	}
}

// Summary fetches the user's progress synchronously and reshapes the
// positional difficulty arrays into named fields.
func (s *LeetcodeService) Summary(ctx context.Context, username string) (*domain.LeetcodeSummary, error) {
	progress, err := s.fetcher.FetchUserProgress(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(progress.AllQuestions) < bucketCount || len(progress.Accepted) < bucketCount {
		return nil, fmt.Errorf("malformed leetcode response: got %d question buckets and %d submission buckets",
			len(progress.AllQuestions), len(progress.Accepted))
	}

	ranking := progress.Ranking
	if s.mockRanking {
		ranking = s.placeholderRanking
	}

	return &domain.LeetcodeSummary{
		Status:         "success",
		TotalSolved:    progress.Accepted[bucketAll].Count,
		TotalQuestions: progress.AllQuestions[bucketAll].Count,
		EasySolved:     progress.Accepted[bucketEasy].Count,
		TotalEasy:      progress.AllQuestions[bucketEasy].Count,
		MediumSolved:   progress.Accepted[bucketMedium].Count,
		TotalMedium:    progress.AllQuestions[bucketMedium].Count,
		HardSolved:     progress.Accepted[bucketHard].Count,
		TotalHard:      progress.AllQuestions[bucketHard].Count,
		Ranking:        ranking,
	}, nil
}
