package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskbook/internal/config"
	"taskbook/internal/logging"
	"taskbook/internal/session"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	configPath string
	verbose    bool

	cfg     *config.Config
	logger  *zap.Logger
	session *session.Session
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one command line. The session is closed even when the
// command fails.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, c := newRootCmd()
	defer c.teardown()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	root := &cobra.Command{
		Use:          "taskbook",
		Short:        "A personal task tracker",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath(), "path to config.yaml")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAddCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newStatusCmd(c),
		newDeleteCmd(c),
		newConfigCmd(c),
	)
	return root, c
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	c.cfg, c.logger = cfg, logger
	return nil
}

// open starts the task session. Commands that do not touch tasks skip it.
func (c *cli) open(ctx context.Context) (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	s, err := session.Open(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

func (c *cli) teardown() {
	if c.session != nil {
		if err := c.session.Close(); err != nil {
			c.logger.Warn("close session", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// warnPersist turns a save failure into a warning: the change is already in
// effect for this invocation.
func warnPersist(cmd *cobra.Command, err error) error {
	if session.IsPersistFailure(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
