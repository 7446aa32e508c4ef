package config

import (
	"flag"
	"os"
	"time"

	"github.com/resumeforge/resumeforge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     API base URL (default from Config)
//	-i int        request timeout in seconds
//	-d int        preview debounce in milliseconds
//	-db string    draft database path
//	-t string     resume template id
//	-lang string  document language code
//	-o string     preview output file
//	-code string  OAuth exchange code from a browser sign-in
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-i", "-d", "-db", "-t", "-lang", "-o", "-code"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeoutSec := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	debounceMs := fs.Int("d", int(cfg.PreviewDebounce.Milliseconds()), "preview debounce (in milliseconds)")
	fs.StringVar(&cfg.DraftDBPath, "db", cfg.DraftDBPath, "draft database path")
	fs.StringVar(&cfg.TemplateID, "t", cfg.TemplateID, "resume template id")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "document language code")
	fs.StringVar(&cfg.PreviewOutput, "o", cfg.PreviewOutput, "preview output file")
	fs.StringVar(&cfg.OAuthCode, "code", cfg.OAuthCode, "OAuth exchange code")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
	cfg.PreviewDebounce = time.Duration(*debounceMs) * time.Millisecond
}
