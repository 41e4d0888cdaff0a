// Package build orchestrates a full bootstrap run: manifest resolution,
// host bootstrap, target bootstrap, environment serialization, and bundle
// assembly for the primary runtime and every auxiliary artifact.
package build

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jlollis/jscl/internal/bootstrap"
	"github.com/jlollis/jscl/internal/buildlog"
	"github.com/jlollis/jscl/internal/bundle"
	"github.com/jlollis/jscl/internal/config"
	"github.com/jlollis/jscl/internal/emit"
	"github.com/jlollis/jscl/internal/hostload"
	"github.com/jlollis/jscl/internal/manifest"
	"github.com/jlollis/jscl/internal/pipeline"
	"github.com/jlollis/jscl/internal/version"
)

// Config describes one build run.
type Config struct {
	SrcDir       string
	OutDir       string
	ManifestPath string // defaults to SrcDir/jscl.yaml
	MetadataPath string // defaults to SrcDir/package.json
	JournalPath  string // empty disables the build journal

	// Loader loads host-side units. Defaults to the yaegi Go loader.
	Loader bootstrap.NativeLoader

	Log *zap.Logger
}

// Result reports a completed run.
type Result struct {
	RunID     string
	Version   string
	Artifacts []string
}

// Run executes the whole pipeline. Every stage failure is fatal to the run,
// including failures building auxiliary bundles after a successful target
// bootstrap; artifacts already written by a failed run are invalid.
func Run(cfg Config) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = filepath.Join(cfg.SrcDir, config.ManifestFileName)
	}
	if cfg.MetadataPath == "" {
		cfg.MetadataPath = filepath.Join(cfg.SrcDir, config.MetadataFileName)
	}

	runID := uuid.NewString()
	ver, err := version.Read(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}
	log.Info("build starting",
		zap.String("run", runID),
		zap.String("version", ver),
		zap.String("src", cfg.SrcDir))

	m, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	loader := cfg.Loader
	if loader == nil {
		loader, err = hostload.NewGoLoader()
		if err != nil {
			return nil, err
		}
	}

	var journal *buildlog.Journal
	if cfg.JournalPath != "" {
		journal, err = buildlog.Open(cfg.JournalPath)
		if err != nil {
			log.Warn("build journal unavailable", zap.Error(err))
		} else {
			defer journal.Close()
			if err := journal.BeginRun(runID, ver); err != nil {
				log.Warn("build journal", zap.Error(err))
			}
		}
	}

	res := &Result{RunID: runID, Version: ver}
	header := "// jscl " + ver + "\n"
	record := func(path string) {
		res.Artifacts = append(res.Artifacts, path)
		if journal == nil {
			return
		}
		var size int64
		if fi, err := os.Stat(path); err == nil {
			size = fi.Size()
		}
		if err := journal.RecordArtifact(runID, path, size); err != nil {
			log.Warn("build journal", zap.Error(err))
		}
	}

	var (
		hc      *bootstrap.HostCompiler
		tr      *bootstrap.TargetResult
		envDump string
		units   int
	)

	stages := []pipeline.Stage{
		{Name: "host bootstrap", Run: func() error {
			var err error
			hc, err = bootstrap.Host(m.Core, cfg.SrcDir, loader, log)
			if hc != nil {
				units += len(hc.Units)
			}
			return err
		}},
		{Name: "target bootstrap", Run: func() error {
			var err error
			tr, err = bootstrap.Target(m.Core, cfg.SrcDir, hc, log)
			if tr != nil {
				units += len(tr.Units)
			}
			return err
		}},
		{Name: "serialize environment", Run: func() error {
			envDump = emit.Environment(tr.Env)
			return nil
		}},
		{Name: "assemble runtime", Run: func() error {
			path := filepath.Join(cfg.OutDir, config.RuntimeArtifactName)
			if err := bundle.Assemble([]string{header, tr.Output, envDump}, path, bundle.Options{}); err != nil {
				return err
			}
			record(path)
			return nil
		}},
		{Name: "assemble test bundle", Run: func() error {
			if len(m.Tests) == 0 {
				return nil
			}
			aux, err := bootstrap.Target(m.Tests, cfg.SrcDir, hc, log)
			if err != nil {
				return err
			}
			units += len(aux.Units)
			path := filepath.Join(cfg.OutDir, config.TestArtifactName)
			if err := bundle.Assemble([]string{header, aux.Output}, path, bundle.Options{}); err != nil {
				return err
			}
			record(path)
			return nil
		}},
		{Name: "assemble front-ends", Run: func() error {
			for _, fe := range m.Frontends {
				aux, err := bootstrap.Target(fe.Entries, cfg.SrcDir, hc, log)
				if err != nil {
					return err
				}
				units += len(aux.Units)
				path := filepath.Join(cfg.OutDir, fe.Name+".js")
				if err := bundle.Assemble([]string{header, aux.Output}, path, bundle.Options{Shebang: fe.Shebang}); err != nil {
					return err
				}
				record(path)
			}
			return nil
		}},
	}

	runErr := pipeline.New(log, stages...).Run()
	if journal != nil {
		status := "ok"
		if runErr != nil {
			status = "failed"
		}
		if err := journal.FinishRun(runID, status, units); err != nil {
			log.Warn("build journal", zap.Error(err))
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	log.Info("build complete",
		zap.String("run", runID),
		zap.Strings("artifacts", res.Artifacts))
	return res, nil
}
