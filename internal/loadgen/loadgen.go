// Package loadgen drives scan and click traffic against a running service.
package loadgen

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

type Config struct {
	BaseURL  string
	Slugs    []string
	Items    int
	Rate     int // requests per second
	Duration time.Duration
	Workers  uint64
	Timeout  time.Duration
}

// ParseConfig reads the loadgen flags from args.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var (
		cfg   Config
		slugs string
	)
	fs.StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "service base URL")
	fs.StringVar(&slugs, "slugs", "demo", "comma separated tenant slugs")
	fs.IntVar(&cfg.Items, "items", 10, "menu positions to click")
	fs.IntVar(&cfg.Rate, "rate", 50, "requests per second")
	fs.DurationVar(&cfg.Duration, "duration", 10*time.Second, "attack duration")
	fs.Uint64Var(&cfg.Workers, "workers", vegeta.DefaultWorkers, "initial attack workers")
	fs.DurationVar(&cfg.Timeout, "timeout", vegeta.DefaultTimeout, "per request timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	for _, s := range strings.Split(slugs, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Slugs = append(cfg.Slugs, s)
		}
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid -url %q", c.BaseURL))
	}
	if len(c.Slugs) == 0 {
		errs = append(errs, errors.New("-slugs must name at least one tenant"))
	}
	if c.Items < 0 {
		errs = append(errs, errors.New("-items must not be negative"))
	}
	if c.Rate <= 0 {
		errs = append(errs, errors.New("-rate must be positive"))
	}
	if c.Duration <= 0 {
		errs = append(errs, errors.New("-duration must be positive"))
	}
	return errors.Join(errs...)
}

// Targets lists one scan, one generic click and one click per menu position
// for every slug. The static targeter cycles through them in order.
func Targets(cfg Config) []vegeta.Target {
	base := strings.TrimRight(cfg.BaseURL, "/")
	targets := make([]vegeta.Target, 0, len(cfg.Slugs)*(cfg.Items+2))
	for _, slug := range cfg.Slugs {
		prefix := base + "/api/" + url.PathEscape(slug)
		targets = append(targets,
			vegeta.Target{Method: http.MethodPost, URL: prefix + "/scan"},
			vegeta.Target{Method: http.MethodPost, URL: prefix + "/click"},
		)
		for i := 0; i < cfg.Items; i++ {
			targets = append(targets, vegeta.Target{Method: http.MethodPost, URL: fmt.Sprintf("%s/item/%d/click", prefix, i)})
		}
	}
	return targets
}

// Run attacks until the duration elapses or ctx is cancelled and writes a
// text report to out.
func Run(ctx context.Context, cfg Config, out io.Writer) (*vegeta.Metrics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	attacker := vegeta.NewAttacker(
		vegeta.Workers(cfg.Workers),
		vegeta.Timeout(cfg.Timeout),
	)
	rate := vegeta.Rate{Freq: cfg.Rate, Per: time.Second}
	targeter := vegeta.NewStaticTargeter(Targets(cfg)...)

	stop := context.AfterFunc(ctx, func() { attacker.Stop() })
	defer stop()

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, cfg.Duration, "menu-analytics") {
		metrics.Add(res)
	}
	metrics.Close()

	if err := vegeta.NewTextReporter(&metrics).Report(out); err != nil {
		return &metrics, fmt.Errorf("write report: %w", err)
	}
	return &metrics, nil
}
