package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitecrawl/internal/logger"
	"github.com/jmylchreest/sitecrawl/internal/output"
	"github.com/jmylchreest/sitecrawl/internal/report"
	"github.com/jmylchreest/sitecrawl/pkg/fetcher"
	"github.com/jmylchreest/sitecrawl/pkg/sitecrawl"
)

// crawlSettings is the merged view of positional arguments, flags, config
// file and environment for one crawl.
type crawlSettings struct {
	Seed        string        `mapstructure:"-" validate:"required"`
	Concurrency int           `mapstructure:"concurrency" validate:"min=1"`
	MaxPages    int           `mapstructure:"max_pages" validate:"min=1"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent"`
	Format      string        `mapstructure:"format" validate:"oneof=text json jsonl yaml"`
	Output      string        `mapstructure:"output"`
}

var validate = validator.New()

var crawlCmd = &cobra.Command{
	Use:   "crawl <seed-url> [max-concurrency] [max-pages]",
	Short: "Crawl a site and report internal link counts",
	Long: `Crawl fetches the seed URL, follows every link that stays on the same
host and counts how many times each page is referenced.

max-concurrency bounds the fetches in flight (default 3); max-pages bounds
the number of distinct pages recorded (default 10). Both can also be set
with the concurrency and max_pages config keys or the SITECRAWL_CONCURRENCY
and SITECRAWL_MAX_PAGES environment variables.

Pressing Ctrl-C stops the crawl and prints what was gathered so far.`,
	Args: crawlArgs,
	RunE: runCrawl,
}

// crawlArgs rejects a missing seed and non-integer limits before the run
// starts, so cobra prints usage for them.
func crawlArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(1, 3)(cmd, args); err != nil {
		return err
	}
	for i, name := range []string{"max-concurrency", "max-pages"} {
		if len(args) > i+1 {
			if _, err := strconv.Atoi(args[i+1]); err != nil {
				return fmt.Errorf("%s must be an integer, got %q", name, args[i+1])
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	viper.SetDefault("concurrency", 3)
	viper.SetDefault("max_pages", 10)

	flags := crawlCmd.Flags()
	flags.Duration("timeout", 10*time.Second, "per-page fetch timeout")
	flags.String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with every request")
	flags.String("format", string(output.FormatText), "report format: text, json, jsonl, yaml")
	flags.StringP("output", "o", "", "output file (default: stdout)")

	// Bind to viper
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
}

// loadCrawlSettings merges positional arguments over viper values and
// validates the result.
func loadCrawlSettings(v *viper.Viper, args []string) (crawlSettings, error) {
	var s crawlSettings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	s.Seed = args[0]
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return s, fmt.Errorf("max-concurrency must be an integer, got %q", args[1])
		}
		s.Concurrency = n
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return s, fmt.Errorf("max-pages must be an integer, got %q", args[2])
		}
		s.MaxPages = n
	}

	if f, err := output.ParseFormat(s.Format); err == nil {
		s.Format = string(f)
	}

	if err := validate.Struct(s); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	settings, err := loadCrawlSettings(viper.GetViper(), args)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("crawl command starting",
		"seed", settings.Seed,
		"concurrency", settings.Concurrency,
		"max_pages", settings.MaxPages,
		"timeout", settings.Timeout,
		"format", settings.Format)

	out := cmd.OutOrStdout()
	if settings.Output != "" {
		f, err := os.Create(settings.Output) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", settings.Output, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	writer, err := output.NewWriter(out, output.Format(settings.Format))
	if err != nil {
		logger.Error("failed to create output writer", "format", settings.Format, "error", err)
		return err
	}

	logger.Info("starting crawl",
		"seed", settings.Seed,
		"concurrency", settings.Concurrency,
		"max_pages", settings.MaxPages,
		"timeout", settings.Timeout)

	res, err := sitecrawl.Run(ctx, settings.Seed, settings.Concurrency, settings.MaxPages,
		sitecrawl.WithTimeout(settings.Timeout),
		sitecrawl.WithUserAgent(settings.UserAgent),
	)
	if err != nil {
		logger.Error("crawl failed", "error", err)
		return err
	}

	if ctx.Err() != nil {
		logger.Warn("crawl interrupted, report is partial", "pages", len(res.Pages))
	}

	summary := report.Build(settings.Seed, res.Pages)
	if err := writeReport(writer, summary); err != nil {
		logger.Error("failed to write report", "error", err)
		return err
	}

	logger.Info("report written",
		"pages", humanize.Comma(int64(summary.TotalPages)),
		"fetched", res.Stats.Fetched,
		"failed", res.Stats.FetchFailures,
		"peak_in_flight", res.Stats.PeakInFlight,
		"duration", res.Stats.Duration.Round(time.Millisecond))
	return nil
}

func writeReport(w output.Writer, s report.Summary) error {
	if err := w.Write(s); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
