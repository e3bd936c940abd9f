// Package config loads the scraper configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/wa-dockets/internal/fetch"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

const (
	DefaultPath     = "~/.config/wa-dockets/config.yaml"
	DefaultDatabase = "~/.local/share/wa-dockets/cases.db"

	docketBaseURL = "https://www.courts.wa.gov/appellate_trial_courts/appellatedockets/index.cfm?fa=appellatedockets.showDocket&folder=a0%d&year="

	// DefaultOpinionsURL is the court's opinion release search
	DefaultOpinionsURL        = "https://www.courts.wa.gov/opinions/index.cfm?fa=opinions.processSearch"
	DefaultOpinionsCourtLevel = "C"

	// DefaultOpinionsMinYear is the first year the release search returns anything for
	DefaultOpinionsMinYear = 2013
)

// DefaultMinDate is the earliest docket date the court publishes
var DefaultMinDate = time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)

// Config is the top-level configuration
type Config struct {
	Database  string         `yaml:"database"`
	LogLevel  string         `yaml:"log_level"`
	LogDir    string         `yaml:"log_dir"`
	MinDate   Date           `yaml:"min_date"`
	Fetch     FetchConfig    `yaml:"fetch"`
	Divisions []Division     `yaml:"divisions"`
	Opinions  OpinionsConfig `yaml:"opinions"`
}

// FetchConfig controls how docket pages are retrieved
type FetchConfig struct {
	Mode          string        `yaml:"mode"` // http | browser
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	BrowserRemote string        `yaml:"browser_remote"`
	Delay         time.Duration `yaml:"delay"`
}

// OpinionsConfig locates the opinion release search
type OpinionsConfig struct {
	URL        string `yaml:"url"`
	CourtLevel string `yaml:"court_level"`
	MinYear    int    `yaml:"min_year"`
}

// SearchURL returns the release search for opinions filed from begin to end
func (o OpinionsConfig) SearchURL(begin, end time.Time) string {
	u, err := url.Parse(o.URL)
	if err != nil {
		return o.URL
	}
	q := u.Query()
	q.Set("courtLevel", o.CourtLevel)
	q.Set("beginDate", begin.Format("01/02/2006"))
	q.Set("endDate", end.Format("01/02/2006"))
	u.RawQuery = q.Encode()
	return u.String()
}

// Division is one Court of Appeals division and its docket base URL
type Division struct {
	Number int    `yaml:"number"`
	URL    string `yaml:"url"`
}

// DocketURL returns the docket page URL for date
func (d Division) DocketURL(date time.Time) string {
	return fmt.Sprintf("%s%d&file=%s", d.URL, date.Year(), date.Format("20060102"))
}

// DefaultDivisionURL returns the court's docket base URL for division n
func DefaultDivisionURL(n int) string {
	return fmt.Sprintf(docketBaseURL, n)
}

// Date is a calendar date written as YYYY-MM-DD
type Date struct {
	time.Time
}

// UnmarshalYAML parses a YYYY-MM-DD scalar
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid date %q (want YYYY-MM-DD)", value.Line, value.Value)
	}
	d.Time = t
	return nil
}

// MarshalYAML writes the date as YYYY-MM-DD
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format("2006-01-02"), nil
}

// Default returns the built-in configuration covering Divisions I-III
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := storage.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MinDate.IsZero() {
		c.MinDate = Date{DefaultMinDate}
	}
	if c.Fetch.Mode == "" {
		c.Fetch.Mode = string(fetch.ModeHTTP)
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = fetch.DefaultUserAgent
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = fetch.DefaultTimeout
	}
	if len(c.Divisions) == 0 {
		c.Divisions = []Division{
			{Number: 1},
			{Number: 2},
			{Number: 3},
		}
	}
	for i := range c.Divisions {
		if c.Divisions[i].URL == "" {
			c.Divisions[i].URL = DefaultDivisionURL(c.Divisions[i].Number)
		}
	}
	if c.Opinions.URL == "" {
		c.Opinions.URL = DefaultOpinionsURL
	}
	if c.Opinions.CourtLevel == "" {
		c.Opinions.CourtLevel = DefaultOpinionsCourtLevel
	}
	if c.Opinions.MinYear == 0 {
		c.Opinions.MinYear = DefaultOpinionsMinYear
	}
}

// Validate reports the first configuration problem found
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := fetch.ParseMode(c.Fetch.Mode); err != nil {
		return err
	}
	if c.Fetch.Delay < 0 {
		return fmt.Errorf("fetch delay must not be negative: %s", c.Fetch.Delay)
	}
	if len(c.Divisions) == 0 {
		return errors.New("no divisions configured")
	}

	seen := make(map[int]bool)
	for _, d := range c.Divisions {
		if d.Number <= 0 {
			return fmt.Errorf("invalid division number: %d", d.Number)
		}
		if seen[d.Number] {
			return fmt.Errorf("division %d configured more than once", d.Number)
		}
		seen[d.Number] = true

		u, err := url.Parse(d.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("division %d: invalid url %q", d.Number, d.URL)
		}
	}

	if u, err := url.Parse(c.Opinions.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("opinions: invalid url %q", c.Opinions.URL)
	}

	return nil
}

// Division returns the configured division numbered n
func (c *Config) Division(n int) (Division, bool) {
	for _, d := range c.Divisions {
		if d.Number == n {
			return d, true
		}
	}
	return Division{}, false
}

// FetchOptions converts the fetch section into fetcher options
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Mode:          fetch.Mode(c.Fetch.Mode),
		UserAgent:     c.Fetch.UserAgent,
		Timeout:       c.Fetch.Timeout,
		BrowserRemote: c.Fetch.BrowserRemote,
	}
}
