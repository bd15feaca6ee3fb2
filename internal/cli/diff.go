package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"nodediff/pkg/apidiff"
	"nodediff/pkg/doccache"
	"nodediff/pkg/errors"
	"nodediff/pkg/nodedocs"
)

// diffOpts holds the command-line flags for the diff command.
type diffOpts struct {
	refresh  bool   // bypass the document cache
	noCache  bool   // disable the document cache entirely
	cacheDir string // cache directory (overrides config)
	baseURL  string // documentation root (overrides config)
	config   string // explicit config file path
	output   string // output file path (stdout if empty)
	jsonOut  bool   // emit the report as JSON
}

// diffCommand creates the diff command comparing two release lines.
func (c *CLI) diffCommand() *cobra.Command {
	var opts diffOpts

	cmd := &cobra.Command{
		Use:   "diff <older> <newer>",
		Short: "Report API methods new in the newer Node.js version",
		Long: `Compare the documented API surface of two Node.js release lines and
print the methods present in the newer one but absent from the older one.

Versions are major release numbers. Raw module documents are cached under
the cache directory (one subdirectory per version) and reused on later runs.

Examples:
  nodediff diff 18 22
  nodediff diff 20 22 --json -o report.json
  nodediff diff 18 22 --refresh`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			newer, err := parseVersion(args[1])
			if err != nil {
				return err
			}
			return c.runDiff(cmd, opts, older, newer)
		},
	}

	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the document cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache directory (default \"cache\")")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "documentation root URL")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ~/.config/nodediff/config.toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the report as JSON")

	return cmd
}

// parseVersion validates a CLI version argument. Both versions must parse as
// non-zero numbers; anything else is a usage error.
func parseVersion(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return "", errors.New(errors.ErrCodeInvalidVersion,
			"version must be a positive, non-zero number, got %q", arg)
	}
	return strconv.Itoa(n), nil
}

// runDiff builds the normalized module set for each version and writes the
// comparison report.
func (c *CLI) runDiff(cmd *cobra.Command, opts diffOpts, older, newer string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	baseURL := firstNonEmpty(opts.baseURL, cfg.BaseURL)
	store, err := newStore(opts.noCache, resolveCacheDir(opts.cacheDir, cfg), cfg.TTL.Duration)
	if err != nil {
		return err
	}
	client := nodedocs.NewClient(store, baseURL)

	olderSet, err := c.loadModuleSet(cmd, client, older, opts.refresh)
	if err != nil {
		return err
	}
	newerSet, err := c.loadModuleSet(cmd, client, newer, opts.refresh)
	if err != nil {
		return err
	}

	report := apidiff.Diff(olderSet, newerSet, logger.Warnf)
	if err := c.writeReport(cmd, report, opts); err != nil {
		return err
	}

	if report.Empty() {
		logger.Infof("No new methods in v%s relative to v%s", newer, older)
	} else {
		logger.Infof("%d modules gained methods between v%s and v%s", len(report.Modules), older, newer)
	}
	return nil
}

// loadModuleSet extracts the module list for one version and normalizes
// every module in it.
func (c *CLI) loadModuleSet(cmd *cobra.Command, client *nodedocs.Client, version string, refresh bool) (apidiff.ModuleSet, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	sp := newSpinner(ctx, fmt.Sprintf("Fetching module index for v%s", version))
	sp.Start()
	names, err := client.Modules(version)
	sp.Stop()
	if err != nil {
		return nil, err
	}
	logger.Debugf("Found %d modules for v%s", len(names), version)

	prog := newProgress(logger)
	normalizer := apidiff.NewNormalizer(client.Fetcher(version, refresh), logger.Warnf)
	set, err := normalizer.BuildSet(ctx, names)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Normalized %d of %d modules for v%s", len(set), len(names), version))
	return set, nil
}

// writeReport renders the report to opts.output, or the command's stdout
// when no output file is given.
func (c *CLI) writeReport(cmd *cobra.Command, report apidiff.Report, opts diffOpts) error {
	logger := loggerFromContext(cmd.Context())

	out, err := openOutput(cmd, opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if opts.jsonOut {
		err = report.WriteJSON(out)
	} else {
		err = report.WriteText(out)
	}
	if err != nil {
		return err
	}
	if opts.output != "" {
		logger.Infof("Wrote report to %s", opts.output)
	}
	return nil
}

// newStore selects the cache backend for this run.
func newStore(noCache bool, dir string, ttl time.Duration) (doccache.Store, error) {
	if noCache {
		return doccache.NewNullStore(), nil
	}
	return doccache.NewDirStore(dir, ttl)
}

// resolveCacheDir picks the cache directory from flag, config, then default.
func resolveCacheDir(flagValue string, cfg Config) string {
	return firstNonEmpty(flagValue, cfg.CacheDir, defaultCacheDir)
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// nopCloser wraps an io.Writer with a no-op Close method, making the
// command's stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or the command's
// stdout when path is empty.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}
