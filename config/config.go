package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Credentials holds the LinkedIn account used for cookie-based login.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RuntimeConfig controls how the automation run behaves.
type RuntimeConfig struct {
	Headless                   bool   `yaml:"headless"`
	AnswersFile                string `yaml:"answers_file"`
	CVPath                     string `yaml:"cv_path"`
	DataDir                    string `yaml:"data_dir"`
	CookieDir                  string `yaml:"cookie_dir"`
	Oracle                     string `yaml:"oracle"` // "llm" or "prompt"
	SessionSaveIntervalSeconds int    `yaml:"session_save_interval_seconds"`
	AcceptCookiesSelector      string `yaml:"accept_cookies_selector"`
	LogLevel                   string `yaml:"log_level"`
	LogFormat                  string `yaml:"log_format"`
	MaxApplications            int    `yaml:"max_applications"`
}

// Defaults are the fixed answers applied to well-known text questions
// before the oracle is consulted.
type Defaults struct {
	YearsExperience string `yaml:"years_experience"`
	NoticePeriod    string `yaml:"notice_period"`
	Salary          string `yaml:"salary"`
}

// SearchFilters mirror the LinkedIn job search URL filter parameters.
type SearchFilters struct {
	AutoEasyApply         bool     `yaml:"auto_easy"`
	AutoRecommended       bool     `yaml:"auto_recommend"`
	LowNumberApplicants   bool     `yaml:"low_number_applicants"`
	DistanceKm            int      `yaml:"distance_km"`
	DatePosted            string   `yaml:"date_posted"`
	DatePostedCustomHours int      `yaml:"date_posted_custom_hours_value"`
	Remote                []string `yaml:"remote"`
	Experience            []string `yaml:"experience"`
	JobType               []string `yaml:"job_type"`
}

// SearchProfile is one configured job search.
type SearchProfile struct {
	Query    string        `yaml:"query"`
	Location string        `yaml:"location"`
	GeoID    string        `yaml:"geoId"`
	Filters  SearchFilters `yaml:"filters"`
}

type Config struct {
	Credentials Credentials              `yaml:"credentials"`
	Runtime     RuntimeConfig            `yaml:"runtime"`
	Defaults    Defaults                 `yaml:"defaults"`
	Profiles    map[string]SearchProfile `yaml:"search_profiles"`
}

// Load reads the YAML config file, fills defaults and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Runtime.AnswersFile == "" {
		c.Runtime.AnswersFile = filepath.Join("answers", "default.json")
	}
	if c.Runtime.DataDir == "" {
		c.Runtime.DataDir = "data"
	}
	if c.Runtime.CookieDir == "" {
		c.Runtime.CookieDir = "cookies"
	}
	if c.Runtime.Oracle == "" {
		c.Runtime.Oracle = "llm"
	}
	if c.Runtime.SessionSaveIntervalSeconds <= 0 {
		c.Runtime.SessionSaveIntervalSeconds = 300
	}
	if c.Runtime.LogLevel == "" {
		c.Runtime.LogLevel = "info"
	}
	if c.Runtime.LogFormat == "" {
		c.Runtime.LogFormat = "console"
	}
	if c.Runtime.MaxApplications <= 0 {
		c.Runtime.MaxApplications = 25
	}
	if c.Defaults.YearsExperience == "" {
		c.Defaults.YearsExperience = "2"
	}
	if c.Defaults.NoticePeriod == "" {
		c.Defaults.NoticePeriod = "1 month"
	}
	if c.Defaults.Salary == "" {
		c.Defaults.Salary = "45000"
	}
}

func (c *Config) applyEnvOverrides() {
	c.Credentials.Username = getEnv("LINKEDIN_USERNAME", c.Credentials.Username)
	c.Credentials.Password = getEnv("LINKEDIN_PASSWORD", c.Credentials.Password)
	c.Runtime.Oracle = getEnv("ANSWER_ORACLE", c.Runtime.Oracle)
	c.Runtime.LogLevel = getEnv("LOG_LEVEL", c.Runtime.LogLevel)
	if v := os.Getenv("HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Runtime.Headless = b
		}
	}
}

// Validate checks the fields the run cannot proceed without.
func (c *Config) Validate() error {
	if c.Credentials.Username == "" {
		return fmt.Errorf("config: credentials.username is required")
	}
	if c.Credentials.Password == "" {
		return fmt.Errorf("config: credentials.password is required")
	}
	if c.Runtime.Oracle != "llm" && c.Runtime.Oracle != "prompt" {
		return fmt.Errorf("config: runtime.oracle must be \"llm\" or \"prompt\", got %q", c.Runtime.Oracle)
	}
	for name, p := range c.Profiles {
		if p.Filters.AutoEasyApply || p.Filters.AutoRecommended {
			continue
		}
		if p.Location == "" || p.GeoID == "" {
			return fmt.Errorf("config: search profile %q needs location and geoId", name)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
