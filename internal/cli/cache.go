package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	var cacheDir, config string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the module document cache",
	}

	cmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "cache directory (default \"cache\")")
	cmd.PersistentFlags().StringVar(&config, "config", "", "config file (default ~/.config/nodediff/config.toml)")

	cmd.AddCommand(c.cacheClearCommand(&cacheDir, &config))
	cmd.AddCommand(c.cachePathCommand(&cacheDir, &config))

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(cacheDir, config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached module documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDirFor(*cacheDir, *config)
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty version subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached documents", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(cacheDir, config *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDirFor(*cacheDir, *config)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheDirFor resolves the cache directory from the flag, the config file,
// then the default, with the same precedence as the diff command.
func cacheDirFor(flagValue, configPath string) (string, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return "", err
	}
	return resolveCacheDir(flagValue, cfg), nil
}
