package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/rnav/internal/app"
	"github.com/kk-code-lab/rnav/internal/config"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/shellsetup"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// setupDetect is the value of a bare --setup: detect the shell.
const setupDetect = "detect"

var errNoTerminal = errors.New("rnav needs an interactive terminal")

type options struct {
	configPath string
	logLevel   string
	logFile    string
	hidden     bool
	run        []string
	printDir   bool
	setup      string
}

// For mocking in tests
var (
	isTerminal          = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	parentShellDetector = shellsetup.DetectParentShellName
)

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rnav [path]",
		Short: "Terminal file navigator with a background process panel",
		Long: `rnav browses directories in the terminal and runs shell commands
on the selected files, keeping their output in a process panel.

Shell integration: eval "$(rnav --setup)" defines an rnav function that
changes to the directory you leave with quit_cd (Q).`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.setup != "" {
				return printSetup(cmd, opts.setup, args)
			}
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/rnav/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default is $XDG_STATE_HOME/rnav/rnav.log)")
	flags.BoolVar(&opts.hidden, "hidden", false, "show hidden files")
	flags.StringArrayVar(&opts.run, "run", nil, "command to run in the process panel at startup (repeatable)")
	flags.BoolVar(&opts.printDir, "print-dir", false, "print the directory left with quit_cd to stdout")
	flags.StringVar(&opts.setup, "setup", "", "print the shell integration snippet (optionally for SHELL)")
	flags.Lookup("setup").NoOptDefVal = setupDetect

	return cmd
}

// printSetup handles both --setup=fish and --setup fish; in the second form
// the shell arrives as the positional argument.
func printSetup(cmd *cobra.Command, value string, args []string) error {
	shell := value
	if shell == setupDetect {
		shell = ""
		if len(args) == 1 {
			shell = args[0]
		}
	}
	return shellsetup.PrintSetup(cmd.OutOrStdout(), shell, shellsetup.Config{DetectParent: parentShellDetector})
}

func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("hidden") {
		cfg.ShowHidden = opts.hidden
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts options, args []string) error {
	if !isTerminal() {
		return errNoTerminal
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	defer func() {
		_ = logging.Close()
	}()
	log := logging.For("main")

	// UTF-8 fallback keeps non-ASCII names readable on terminals that
	// report an unknown charset.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	app, err := apppkg.NewApplication(apppkg.Options{
		Config: cfg,
		Dir:    dir,
		Run:    opts.run,
	})
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	log.WithField("dir", dir).Info("started")

	app.Run()
	if err := app.Close(); err != nil {
		log.WithError(err).Warn("shutdown")
	}

	if opts.printDir {
		if path := app.GetCurrentPath(); path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
	}
	return nil
}
