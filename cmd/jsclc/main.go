// Command jsclc drives the staged bootstrap of the jscl compiler: it loads
// the host-side implementation into the running process, cross-compiles the
// target-side implementation to JavaScript, and writes the finished
// bundles. All the actual work lives in internal/build; this is argument
// plumbing.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jlollis/jscl/internal/build"
	"github.com/jlollis/jscl/internal/config"
	"github.com/jlollis/jscl/internal/version"
)

var (
	flagSrc      string
	flagOut      string
	flagManifest string
	flagJournal  string
	flagVerbose  bool
)

func newLogger() *zap.Logger {
	if flagVerbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

var rootCmd = &cobra.Command{
	Use:           "jsclc",
	Short:         "Staged bootstrap driver for the jscl compiler",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full bootstrap and write the bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer func() { _ = log.Sync() }()
		res, err := build.Run(build.Config{
			SrcDir:       flagSrc,
			OutDir:       flagOut,
			ManifestPath: flagManifest,
			JournalPath:  flagJournal,
			Log:          log,
		})
		if err != nil {
			return err
		}
		for _, a := range res.Artifacts {
			fmt.Println(a)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the project version from the metadata file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ver, err := version.Read(filepath.Join(flagSrc, config.MetadataFileName))
		if err != nil {
			return err
		}
		fmt.Println(ver)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSrc, "src", ".", "source root directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	buildCmd.Flags().StringVarP(&flagOut, "out", "o", "dist", "output directory for bundles")
	buildCmd.Flags().StringVar(&flagManifest, "manifest", "", "manifest path (default <src>/"+config.ManifestFileName+")")
	buildCmd.Flags().StringVar(&flagJournal, "journal", "", "sqlite build journal path (disabled when empty)")
	rootCmd.AddCommand(buildCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		msg := "jsclc: " + err.Error()
		if isatty.IsTerminal(os.Stderr.Fd()) {
			msg = "\x1b[31m" + msg + "\x1b[0m"
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}
