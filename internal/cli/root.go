// Package cli implements posctl, the operator tool for counting the drawer
// and closing the daily box from a terminal.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/internal/infrastructure/client"
	"github.com/sangkips/ventapett-pos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/ventapett-pos/internal/infrastructure/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/logger"
)

// app is what every command shares. It is filled in by the root command's
// pre-run hook, once flags are parsed.
type app struct {
	v     *viper.Viper
	cfg   *config.Config
	log   *logrus.Logger
	db    *sql.DB
	store repository.KeyValueStore
	api   *client.Client
	auth  *service.AuthService
}

// Execute runs posctl with args and returns the command error, already
// printed to stderr. stdin may be nil.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{v: viper.New()}
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", describe(err))
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Count the drawer and close the daily box",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "env file to read settings from (default .env when present)")
	flags.String("state-path", "", "sqlite file holding the session and the drawer count")
	flags.String("upstream", "", "base URL of the store API")
	flags.String("timezone", "", "store timezone used to assign sales to a day")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("STATE_SQLITE_PATH", flags.Lookup("state-path"))
	_ = a.v.BindPFlag("UPSTREAM_BASE_URL", flags.Lookup("upstream"))
	_ = a.v.BindPFlag("CASHOUT_TIMEZONE", flags.Lookup("timezone"))
	_ = a.v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newLedgerCommand(a),
		newCashoutCommand(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	config.SetDefaults(a.v)
	a.v.SetDefault("LOG_LEVEL", "warn")
	a.v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		a.v.SetConfigFile(".env")
		_ = a.v.ReadInConfig()
	}

	a.cfg = config.FromViper(a.v)
	a.log = logger.New(a.cfg.Log.Level, "text")
	a.log.SetOutput(cmd.ErrOrStderr())

	db, err := database.OpenSQLite(a.cfg.State.SQLitePath, a.log)
	if err != nil {
		return err
	}
	a.db = db
	a.store = infraRepo.NewSQLiteStore(db)

	a.api = client.New(a.cfg.Upstream, nil, nil, a.log)
	a.auth = service.NewAuthService(a.api, a.keyspace(), nil, a.log)
	a.api.SetTokenSource(a.auth)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// keyspace is shared: the terminal has one operator at a time.
func (a *app) keyspace() repository.Keyspace {
	return infraRepo.SharedKeyspace(a.store)
}

// describe renders an error for the terminal, field errors included.
func describe(err error) string {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if len(appErr.Errors) == 0 {
		return appErr.Message
	}
	if len(appErr.Errors) == 1 && appErr.Errors[0].Message == appErr.Message {
		return appErr.Errors[0].Field + ": " + appErr.Message
	}

	parts := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return appErr.Message + " (" + strings.Join(parts, "; ") + ")"
}
