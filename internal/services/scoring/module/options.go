package module

import (
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"combatscore/internal/core/heuristics"
	"combatscore/internal/platform/config"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/net/http/bind"
	"combatscore/internal/services/scoring/ingest"
	"combatscore/internal/services/scoring/repo"

	"github.com/go-playground/validator/v10"
)

// Options holds the scoring run options
type Options struct {
	DataDir    string `json:"data_dir" validate:"required"`
	ResultsDir string `json:"results_dir" validate:"required"`
	Heuristic  string `json:"heuristic" validate:"required,heuristic"`
	Pattern    string `json:"pattern" validate:"required,glob"`

	Workers   int `json:"workers" validate:"min=1"`
	ChunkSize int `json:"chunk" validate:"min=1"`

	FingerprintJobs int    `json:"jobs" validate:"min=1"`
	FingerprintAlgo string `json:"algo" validate:"oneof=md5 sha256 xxhash"`

	Progress string `json:"progress" validate:"oneof=auto bar log off"`

	// Sinks; publishing needs at least one configured store backend
	Publish        bool          `json:"publish"`
	PublishTable   string        `json:"publish_table" validate:"sqlident"`
	PublishRetries int           `json:"publish_retries" validate:"min=1"`
	RetryBase      time.Duration `json:"retry_base"`
}

// FromConfig reads the scoring options from config with the COMBATSCORE_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("COMBATSCORE_")
	return Options{
		DataDir:         c.MayString("DATA_DIR", "data"),
		ResultsDir:      c.MayString("RESULTS_DIR", "heuristic_results"),
		Heuristic:       c.MayString("HEURISTIC", string(heuristics.Default)),
		Pattern:         c.MayString("PATTERN", ingest.DefaultPattern),
		Workers:         c.MayInt("WORKERS", runtime.NumCPU()),
		ChunkSize:       c.MayInt("CHUNK", 10),
		FingerprintJobs: c.MayInt("FINGERPRINT_JOBS", runtime.NumCPU()),
		FingerprintAlgo: strings.ToLower(c.MayString("FINGERPRINT_ALGO", "md5")),
		Progress:        strings.ToLower(c.MayString("PROGRESS", "auto")),
		Publish:         c.MayBool("PUBLISH", false),
		PublishTable:    c.MayString("PUBLISH_TABLE", repo.DefaultTable),
		PublishRetries:  c.MayInt("PUBLISH_RETRIES", 3),
		RetryBase:       c.MayDuration("RETRY_BASE", 500*time.Millisecond),
	}
}

var (
	registerOnce sync.Once
	registerErr  error

	sqlIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)
)

func registerTags() error {
	registerOnce.Do(func() {
		tags := []struct {
			tag, msg string
			fn       validator.Func
		}{
			{"heuristic", "{0} is not a registered heuristic", func(fl validator.FieldLevel) bool {
				return heuristics.Valid(fl.Field().String())
			}},
			{"glob", "{0} is not a valid glob pattern", func(fl validator.FieldLevel) bool {
				_, err := filepath.Match(fl.Field().String(), "")
				return err == nil
			}},
			{"sqlident", "{0} must be a plain sql identifier", func(fl validator.FieldLevel) bool {
				return sqlIdent.MatchString(fl.Field().String())
			}},
		}
		for _, t := range tags {
			if err := bind.RegisterValidation(t.tag, t.msg, t.fn); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

// Validate checks the options; failures are configuration errors naming the field
func (o Options) Validate() error {
	if err := registerTags(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "register validations")
	}
	if err := bind.Struct(o); err != nil {
		e, _ := perr.As(err)
		field := ""
		if e != nil {
			field = e.Field()
		}
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeConfig, "invalid scoring options"), field)
	}
	return nil
}
