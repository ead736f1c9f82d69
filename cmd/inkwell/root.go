package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/project/vfs"
	"github.com/dshills/inkwell/internal/project/watcher"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "inkwell.toml"

// cli holds the state shared by every command of one invocation.
type cli struct {
	v      *viper.Viper
	files  vfs.VFS
	cfg    *config.Config
	logger *logging.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(vfs.NewOSFS())
}

// newRootCmdWith builds the command tree over files.
func newRootCmdWith(files vfs.VFS) *cobra.Command {
	c := &cli{v: viper.New(), files: files}

	root := &cobra.Command{
		Use:           "inkwell",
		Short:         "A scriptable multi-cursor editing core",
		Long:          `inkwell edits files through a multi-cursor, multi-view editing core driven by actions or Lua scripts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default: ./"+DefaultConfigFile+")")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.String("languages", "", "YAML file of extra language definitions")
	flags.Duration("combine-window", 0, "time within which edits undo together")
	flags.Bool("preserve-lines", false, "keep line terminators when typing over a selection")

	bind := map[string]string{
		"config":                 "config",
		"log.level":              "log-level",
		"log.file":               "log-file",
		"languages.file":         "languages",
		"history.combine_window": "combine-window",
		"editor.preserve_lines":  "preserve-lines",
	}
	for key, flag := range bind {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}
	c.v.SetEnvPrefix("INKWELL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		newRunCmd(c),
		newApplyCmd(c),
		newTokensCmd(c),
		newWatchCmd(c),
		newConfigCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup loads the config file, layers flags and INKWELL_* variables over
// it and opens the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	path := c.v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if explicit && !c.files.Exists(path) {
		return fmt.Errorf("config file %s not found", path)
	}
	cfg, err := config.Load(c.files, path)
	if err != nil {
		return err
	}

	v := c.v
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.file") {
		cfg.Log.File = v.GetString("log.file")
	}
	if v.IsSet("languages.file") {
		cfg.Languages.File = v.GetString("languages.file")
	}
	if v.IsSet("history.combine_window") {
		cfg.History.CombineWindow = config.Duration(v.GetDuration("history.combine_window"))
	}
	if v.IsSet("editor.preserve_lines") {
		cfg.Editor.PreserveLines = v.GetBool("editor.preserve_lines")
	}
	if v.IsSet("editor.selection_gap") {
		cfg.Editor.SelectionGap = v.GetInt("editor.selection_gap")
	}
	if v.IsSet("watch.debounce") {
		cfg.Watch.Debounce = config.Duration(v.GetDuration("watch.debounce"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	if cfg.Log.File != "" {
		logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.LogLevel())
		if err != nil {
			return err
		}
		c.logger, c.closer = logger, closer
	} else {
		lc := logging.DefaultConfig()
		lc.Level = cfg.LogLevel()
		lc.Output = cmd.ErrOrStderr()
		c.logger = logging.New(lc)
	}
	c.logger.WithComponent("cli").Debug("config %s loaded", path)
	return nil
}

func (c *cli) teardown() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

// session starts an application, watching files when w is non-nil.
func (c *cli) session(w watcher.Watcher) (*app.Application, error) {
	return app.New(app.Options{
		Config:  c.cfg,
		Files:   c.files,
		Logger:  c.logger,
		Watcher: w,
	})
}

// openAll opens every path in a new view of session.
func openAll(cmd *cobra.Command, session *app.Application, paths []string) error {
	var errs []error
	for _, p := range paths {
		if _, err := session.Open(cmd.Context(), p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		},
	}
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
