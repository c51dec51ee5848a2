package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefolio/portfolio-stats-api/internal/lib/sl"
)

func TestLeetcodeGateway_FetchUserProgress(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "allQuestionsCount")
		assert.Contains(t, string(body), "matchedUser")
		assert.Contains(t, string(body), `"username":"moon"`)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"data":{
			"allQuestionsCount":[
				{"difficulty":"All","count":100},
				{"difficulty":"Easy","count":20},
				{"difficulty":"Medium","count":50},
				{"difficulty":"Hard","count":30}
			],
			"matchedUser":{
				"submitStats":{"acSubmissionNum":[
					{"difficulty":"All","count":42,"submissions":90},
					{"difficulty":"Easy","count":21,"submissions":30},
					{"difficulty":"Medium","count":16,"submissions":40},
					{"difficulty":"Hard","count":5,"submissions":20}
				]},
				"profile":{"ranking":123456}
			}
		}}`)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	gateway := NewLeetcodeGateway(server.URL, server.Client(), sl.Discard())
	progress, err := gateway.FetchUserProgress(context.Background(), "moon")
	require.NoError(t, err)

	// The difficulty arrays stay positional: 0=all, 1=easy, 2=medium, 3=hard.
	require.Len(t, progress.AllQuestions, 4)
	assert.Equal(t, []int{100, 20, 50, 30}, []int{
		progress.AllQuestions[0].Count,
		progress.AllQuestions[1].Count,
		progress.AllQuestions[2].Count,
		progress.AllQuestions[3].Count,
	})
	require.Len(t, progress.Accepted, 4)
	assert.Equal(t, 42, progress.Accepted[0].Count)
	assert.Equal(t, 123456, progress.Ranking)
}

func TestLeetcodeGateway_FetchUserProgress_Error(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"errors":[{"message":"That user does not exist."}]}`)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	gateway := NewLeetcodeGateway(server.URL, server.Client(), sl.Discard())
	progress, err := gateway.FetchUserProgress(context.Background(), "ghost")
	assert.Error(t, err)
	assert.Nil(t, progress)
	assert.Contains(t, err.Error(), "failed to query leetcode progress")
}
