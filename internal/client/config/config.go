package config

import "time"

// Config holds runtime settings for the ResumeForge CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend API, including the /api prefix.
//   - RequestTimeout: per-request deadline for every API call.
//   - PreviewDebounce: quiet period after the last edit before the preview
//     is re-rendered.
//   - DraftDBPath: path of the local sqlite database holding draft autosaves.
//   - TemplateID: default resume template for rendering.
//   - Lang: default document language (two-letter code).
//   - PreviewOutput: file the live preview PDF is written to.
//   - OAuthCode: one-shot OAuth exchange code passed on the command line
//     after a browser sign-in; consumed during session resolution.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	PreviewDebounce time.Duration
	DraftDBPath     string
	TemplateID      string
	Lang            string
	PreviewOutput   string
	OAuthCode       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.PreviewDebounce = time.Second
	c.DraftDBPath = "drafts.db"
	c.TemplateID = "harvard"
	c.Lang = "en"
	c.PreviewOutput = "preview.pdf"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
