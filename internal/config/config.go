// Package config loads process configuration from a YAML file and the
// environment using cleanenv. Environment variables always win so the
// service can run file-less on platforms that only offer env injection.
package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	GitHub     GitHub     `yaml:"github"`
	Leetcode   Leetcode   `yaml:"leetcode"`
	Store      Store      `yaml:"store"`
	CORS       CORS       `yaml:"cors"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type GitHub struct {
	Token string `yaml:"token" env:"GITHUB_PAT"`
	// RefreshProfile is the username refreshed by /api/v1/refresh when the
	// request carries no username of its own.
	RefreshProfile string `yaml:"refresh_profile" env:"REFRESH_PROFILE"`
	// CommitPageLimit bounds commit pagination per repository. Upstream can
	// hold thousands of commits per repo; three pages of 100 covers the
	// active repositories of a personal profile.
	CommitPageLimit int `yaml:"commit_page_limit" env:"GITHUB_COMMIT_PAGE_LIMIT" env-default:"3"`
	PageSize        int `yaml:"page_size" env:"GITHUB_PAGE_SIZE" env-default:"100"`
}

type Leetcode struct {
	Endpoint string `yaml:"endpoint" env:"LEETCODE_ENDPOINT" env-default:"https://leetcode.com/graphql/"`
	// MockRanking substitutes PlaceholderRanking for the live profile
	// ranking in responses.
	MockRanking        bool `yaml:"mock_ranking" env:"LEETCODE_MOCK_RANKING" env-default:"true"`
	PlaceholderRanking int  `yaml:"placeholder_ranking" env:"LEETCODE_PLACEHOLDER_RANKING" env-default:"512680"`
}

type Store struct {
	Path string `yaml:"path" env:"STORE_PATH" env-default:"./data/stats"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"https://devfolio.example.net"`
}

// MustLoad panics if the configuration cannot be read.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			panic("config file does not exist: " + path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			panic("failed to read config: " + err.Error())
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read config from environment: " + err.Error())
	}
	return &cfg
}
