package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pencils57/scenenav/internal/config"
	"github.com/pencils57/scenenav/internal/history"
	"github.com/pencils57/scenenav/internal/host"
	"github.com/pencils57/scenenav/internal/logging"
	"github.com/pencils57/scenenav/internal/navigate"
	"github.com/pencils57/scenenav/internal/project"
	"github.com/pencils57/scenenav/internal/reconcile"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/resolve"
)

// cliContext is shared by every command of one tree.
type cliContext struct {
	env   *env
	viper *viper.Viper
}

// projectDir returns the --project flag, made absolute, or the nearest
// directory above the working directory holding a state directory.
func (c *cliContext) projectDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("project")
	if dir != "" {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(c.env.cwd, dir)
		}
		return filepath.Clean(dir), nil
	}

	if found := project.FindDir(c.env.cwd); found != "" {
		return found, nil
	}
	return "", fmt.Errorf("no %s directory found in %s or any parent (run 'scenenav init')", project.DirName, c.env.cwd)
}

// app holds the components wired for one command run.
type app struct {
	cfg      *config.Config
	sink     *logging.Sink
	logger   *log.Logger
	store    *registry.Store
	resolver *resolve.Resolver
	files    resolve.Files
	host     *host.FileHost
	out      io.Writer
}

// open loads configuration for the current project and wires the
// components. The caller must close the returned app.
func (c *cliContext) open(cmd *cobra.Command) (*app, error) {
	dir, err := c.projectDir(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(c.viper, dir)
	if err != nil {
		return nil, err
	}

	sink := logging.NewSink(logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Verbose:    cfg.Log.Verbose,
		Stderr:     cmd.ErrOrStderr(),
	})

	a := &app{
		cfg:      cfg,
		sink:     sink,
		logger:   sink.Logger("scenenav"),
		store:    registry.NewStore(cfg.Registry, sink.Logger("registry")),
		resolver: newResolver(cfg, sink.Logger("resolve")),
		files:    resolve.Files{Fs: afero.NewOsFs(), Dir: cfg.ProjectDir},
		host:     host.NewFileHost(cfg.Session, cfg.Extension),
		out:      cmd.OutOrStdout(),
	}
	a.logger.Printf("Running %s in %s", cmd.CommandPath(), cfg.ProjectDir)
	return a, nil
}

// newResolver roots the scene search at the project so that bookmarked
// paths stay relative to it, like "Assets/Scenes/Lobby.unity". A scene
// root outside the project is searched by absolute path.
func newResolver(cfg *config.Config, logger *log.Logger) *resolve.Resolver {
	rel, err := filepath.Rel(cfg.ProjectDir, cfg.Root)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return resolve.New(afero.NewOsFs(), cfg.Root, cfg.Extension, logger)
	}
	fs := afero.NewBasePathFs(afero.NewOsFs(), cfg.ProjectDir)
	return resolve.New(fs, rel, cfg.Extension, logger)
}

func (a *app) reconciler() *reconcile.Reconciler {
	return reconcile.New(a.store, a.resolver, a.sink.Logger("reconcile"))
}

func (a *app) navigator() *navigate.Navigator {
	return navigate.New(a.store, a.host, a.files, a.sink.Logger("navigate"))
}

// bookmarkPath maps a file system path to the form stored in bookmarks.
func (a *app) bookmarkPath(p string) string {
	rel, err := filepath.Rel(a.cfg.ProjectDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}

// record journals diags. Journal failures are logged and otherwise
// ignored; they never fail the command that produced the outcomes.
func (a *app) record(ctx context.Context, command string, diags []registry.Diagnostic) {
	if !a.cfg.History.Enabled || len(diags) == 0 {
		return
	}

	db, err := history.Open(a.cfg.History.Path)
	if err != nil {
		a.logger.Printf("Warning: history unavailable: %v", err)
		return
	}
	defer db.Close()

	if err := db.Record(ctx, command, diags); err != nil {
		a.logger.Printf("Warning: failed to record history: %v", err)
	}
}

func (a *app) close() {
	_ = a.sink.Close()
}
