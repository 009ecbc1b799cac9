// Command scenenav keeps a registry of bookmarked scenes for a project and
// switches between them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pencils57/scenenav/internal/config"
	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/ui"
)

// Version is set at build time.
var Version = "0.1.0"

// env is what a command tree needs from the process around it.
type env struct {
	cwd    string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ui.Init(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(&env{cwd: cwd, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail("Error:"), err)
		if registry.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// newRootCmd builds a fresh command tree. Each invocation gets its own
// viper instance so flags never leak between runs.
func newRootCmd(e *env) *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:   "scenenav",
		Short: "Bookmark scenes and jump between them",
		Long: `scenenav keeps an ordered list of bookmarked scenes for a project.

Scenes are registered by name. The name is resolved to the one file under
the scene root carrying that name and the scene extension; names that match
no file, or several files, are skipped. Opening a bookmark whose file has
since moved or been deleted removes the bookmark.

State lives in .scenenav/ at the project root:
  bookmarks.json   the registry
  session.toml     the open scene and current selection
  history.db       journal of every outcome
  config.yaml      settings`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	root.PersistentFlags().StringP("project", "C", "", "Project directory (default: nearest parent with .scenenav)")
	root.PersistentFlags().String("root", "", "Scene root, relative to the project (overrides config)")
	root.PersistentFlags().String("ext", "", "Scene file extension (overrides config)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")
	bindFlag(v, root, "root", "root")
	bindFlag(v, root, "extension", "ext")
	bindFlag(v, root, "log.verbose", "verbose")

	root.AddGroup(
		&cobra.Group{ID: "bookmarks", Title: "Bookmarks:"},
		&cobra.Group{ID: "host", Title: "Editor session:"},
		&cobra.Group{ID: "advanced", Title: "Advanced:"},
	)

	cli := &cliContext{env: e, viper: v}
	root.AddCommand(
		newInitCmd(cli),
		newListCmd(cli),
		newAddCmd(cli),
		newRmCmd(cli),
		newOpenCmd(cli),
		newResolveCmd(cli),
		newCurrentCmd(cli),
		newSelectCmd(cli),
		newSaveCmd(cli),
		newHistoryCmd(cli),
		newWatchCmd(cli),
		newServeCmd(cli),
		newConfigCmd(cli),
	)

	return root
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
}
