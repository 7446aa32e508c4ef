package config

import (
	"encoding/json"
	"os"

	"github.com/resumeforge/resumeforge/internal/flagx"
	"github.com/resumeforge/resumeforge/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL      string         `json:"api_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	PreviewDebounce timex.Duration `json:"preview_debounce"`
	DraftDBPath     string         `json:"draft_db_path"`
	TemplateID      string         `json:"template_id"`
	Lang            string         `json:"lang"`
	PreviewOutput   string         `json:"preview_output"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// comes from the -c/-config flags. Absent path means nothing is loaded.
// Fields missing from the file keep their current values. Panics on read or
// unmarshal errors, matching the fail-fast startup behavior of parseFlags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PreviewDebounce.Duration != 0 {
		cfg.PreviewDebounce = jc.PreviewDebounce.Duration
	}
	if jc.DraftDBPath != "" {
		cfg.DraftDBPath = jc.DraftDBPath
	}
	if jc.TemplateID != "" {
		cfg.TemplateID = jc.TemplateID
	}
	if jc.Lang != "" {
		cfg.Lang = jc.Lang
	}
	if jc.PreviewOutput != "" {
		cfg.PreviewOutput = jc.PreviewOutput
	}
}
