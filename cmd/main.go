package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/n10ty/authform"
	"github.com/n10ty/authform/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// errFailed ends a command whose flow failed; the user has already been
// told why.
var errFailed = errors.New("flow failed")

type env struct {
	prompter Prompter
	stderr   io.Writer
	http     *http.Client
}

type runner struct {
	env    env
	cfg    *authform.Config
	client *authform.Client
	store  storage.Storage
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(env{prompter: surveyPrompter{}, stderr: os.Stderr}).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			log.Error(err)
		}
		os.Exit(1)
	}
}

func newApp(e env) *cli.App {
	r := &runner{env: e}
	return &cli.App{
		Name:      "authform",
		Usage:     "log in to and manage an account on an auth web app",
		ErrWriter: e.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file", EnvVars: []string{"AUTHFORM_CONFIG"}},
			&cli.StringFlag{Name: "base-url", Usage: "base url of the auth web app"},
			&cli.StringFlag{Name: "lang", Usage: "message language (id, en)"},
			&cli.StringFlag{Name: "log-level", Usage: "log level"},
			&cli.StringFlag{Name: "session-file", Usage: "file keeping cookies between runs"},
		},
		Before: r.setup,
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
					&cli.StringFlag{Name: "password", EnvVars: []string{"AUTHFORM_PASSWORD"}},
					&cli.BoolFlag{Name: "remember", Usage: "keep the session after the browser closes"},
				},
				Action: r.login,
			},
			{
				Name:   "guest",
				Usage:  "log in as guest",
				Action: r.guest,
			},
			{
				Name:   "forgot-password",
				Usage:  "send a reset password link",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "email", Aliases: []string{"e"}}},
				Action: r.forgotPassword,
			},
			{
				Name:  "reset-password",
				Usage: "set a new password from a reset link",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "link", Usage: "reset link received by email", Required: true},
					&cli.StringFlag{Name: "password", EnvVars: []string{"AUTHFORM_PASSWORD"}},
					&cli.StringFlag{Name: "confirm"},
				},
				Action: r.resetPassword,
			},
			{
				Name:  "change-password",
				Usage: "change the password of the logged in user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", EnvVars: []string{"AUTHFORM_PASSWORD"}},
					&cli.StringFlag{Name: "confirm"},
				},
				Action: r.changePassword,
			},
			{
				Name:   "logout",
				Usage:  "end the session",
				Action: r.logout,
			},
		},
	}
}

func (r *runner) setup(c *cli.Context) error {
	cfg, err := authform.ReadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("lang") {
		cfg.Language = c.String("lang")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("session-file") {
		cfg.SessionPath = c.String("session-file")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New()
	logger.SetOutput(r.env.stderr)
	logger.SetLevel(cfg.Level())

	opts := []authform.ClientOption{
		authform.WithClientLogger(logger),
		authform.WithClientNotifier(authform.NewTerminalNotifier(r.env.stderr)),
	}
	if r.env.http != nil {
		opts = append(opts, authform.WithClientHTTP(r.env.http))
	}
	client, err := authform.NewClient(cfg, opts...)
	if err != nil {
		return err
	}

	storeCfg := storage.Config{Type: storage.TypeInMemory}
	if cfg.SessionPath != "" {
		storeCfg = storage.Config{Type: storage.TypeFile, FileStoragePath: cfg.SessionPath}
	}
	store, err := storage.NewStorage(storeCfg)
	if err != nil {
		return err
	}
	if err := client.RestoreSession(store); err != nil {
		return err
	}

	r.cfg, r.client, r.store = cfg, client, store
	return nil
}
