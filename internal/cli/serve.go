package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/wordlist"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the solver HTTP API until interrupted.

Sessions live in memory unless REDIS_ADDR is set. Named word lists are
kept in the SQLite database at DB_PATH; an empty DB_PATH disables them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}

func (a *App) serve(ctx context.Context) error {
	cfg := a.cfg

	if err := words.Init(a.cfg.AnswersFile, a.cfg.AllowedFile); err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	res := &wordlist.Resolver{Lists: words.Default()}

	if cfg.DBPath != "" {
		db, err := wordlist.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		res.Store = wordlist.NewStore(db)
	}

	var sessions store.Store
	if cfg.RedisAddr != "" {
		client, err := store.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		sessions = store.NewRedisStore(client, res.Dictionary, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("sessions stored in redis")
	} else {
		sessions = store.NewMemoryStore(cfg.SessionTTL)
	}

	srv := httpserver.New(httpserver.Deps{Store: sessions, Lists: res, Config: cfg})
	log.Info().Str("port", cfg.Port).Bool("lists", res.Store != nil).Msg("starting solver")
	return srv.Run(ctx, ":"+cfg.Port)
}
