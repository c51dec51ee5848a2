package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shurcooL/graphql"
)

// QuestionCount is one bucket of a positional difficulty array in the
// LeetCode GraphQL response. Index 0 is "all", then easy, medium, hard; the
// upstream API offers no named lookup, so order is the contract.
type QuestionCount struct {
	Difficulty string
	Count      int
}

// UserProgress is the raw, still-positional result of the fixed
// userSessionProgress query.
type UserProgress struct {
	AllQuestions []QuestionCount
	Accepted     []QuestionCount
	Ranking      int
}

// LeetcodeFetcher fetches a user's solve progress from LeetCode.
type LeetcodeFetcher interface {
	FetchUserProgress(ctx context.Context, username string) (*UserProgress, error)
}

// LeetcodeGateway talks to LeetCode's public GraphQL endpoint.
type LeetcodeGateway struct {
	client *graphql.Client
	logger *slog.Logger
}

// NewLeetcodeGateway creates a gateway against the given GraphQL endpoint.
// Passing a nil httpClient uses http.DefaultClient.
func NewLeetcodeGateway(endpoint string, httpClient *http.Client, logger *slog.Logger) *LeetcodeGateway {
	return &LeetcodeGateway{
		client: graphql.NewClient(endpoint, httpClient),
		logger: logger,
	}
}

// userProgressQuery mirrors the userSessionProgress query shape.
type userProgressQuery struct {
	AllQuestionsCount []struct {
		Difficulty graphql.String
		Count      graphql.Int
	}
	MatchedUser struct {
		SubmitStats struct {
			AcSubmissionNum []struct {
				Difficulty  graphql.String
				Count       graphql.Int
				Submissions graphql.Int
			}
		}
		Profile struct {
			Ranking graphql.Int
		}
	} `graphql:"matchedUser(username: $username)"`
}

func (g *LeetcodeGateway) FetchUserProgress(ctx context.Context, username string) (*UserProgress, error) {
	var q userProgressQuery
	variables := map[string]interface{}{
		"username": graphql.String(username),
	}
	if err := g.client.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to query leetcode progress for %s: %w", username, err)
	}

	progress := &UserProgress{
		AllQuestions: make([]QuestionCount, 0, len(q.AllQuestionsCount)),
		Accepted:     make([]QuestionCount, 0, len(q.MatchedUser.SubmitStats.AcSubmissionNum)),
		Ranking:      int(q.MatchedUser.Profile.Ranking),
	}
	for _, c := range q.AllQuestionsCount {
		progress.AllQuestions = append(progress.AllQuestions, QuestionCount{
			Difficulty: string(c.Difficulty),
			Count:      int(c.Count),
		})
	}
	for _, c := range q.MatchedUser.SubmitStats.AcSubmissionNum {
		progress.Accepted = append(progress.Accepted, QuestionCount{
			Difficulty: string(c.Difficulty),
			Count:      int(c.Count),
		})
	}
	g.logger.Debug("fetched leetcode progress", slog.String("username", username))
	return progress, nil
}
