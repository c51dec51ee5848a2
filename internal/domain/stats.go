// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// StatsSnapshot is the single persisted aggregate of GitHub statistics for
// the configured profile. A refresh replaces it wholesale; there is no merge
// and no history.
type StatsSnapshot struct {
	Repos       int       `json:"repos"`
	Commits     int       `json:"commits"`
	Pulls       int       `json:"pulls"`
	Stars       int       `json:"stars"`
	RefreshedAt time.Time `json:"refreshed_at,omitzero"`
}

// Repository holds the subset of GitHub repository metadata the aggregator
// needs: the name to address per-repo calls and the star count to sum.
type Repository struct {
	Name  string
	Stars int
}

// LeetcodeSummary is the response shape for the LeetCode read-through
// endpoint. The difficulty buckets come from positional arrays in the
// upstream GraphQL response (0=all, 1=easy, 2=medium, 3=hard).
type LeetcodeSummary struct {
	Status         string `json:"status"`
	TotalSolved    int    `json:"totalSolved"`
	TotalQuestions int    `json:"totalQuestions"`
	EasySolved     int    `json:"easySolved"`
	TotalEasy      int    `json:"totalEasy"`
	MediumSolved   int    `json:"mediumSolved"`
	TotalMedium    int    `json:"totalMedium"`
	HardSolved     int    `json:"hardSolved"`
	TotalHard      int    `json:"totalHard"`
	Ranking        int    `json:"ranking"`
}
