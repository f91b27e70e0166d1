package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/wordlist"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// newListsCmd creates the lists command group.
func (a *App) newListsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage named word lists",
		Long: `Manage the named word lists kept in the SQLite database.

The builtin "answers" list is always available and cannot be replaced.`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (overrides DB_PATH)")

	open := func() (*sql.DB, *wordlist.Store, error) {
		path := a.cfg.DBPath
		if dbPath != "" {
			path = dbPath
		}
		if path == "" {
			return nil, nil, errors.New("no database: set DB_PATH or --db")
		}
		db, err := wordlist.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return db, wordlist.NewStore(db), nil
	}

	importCmd := &cobra.Command{
		Use:   "import <name> <file>",
		Short: "Replace a list with the words in file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			list, err := words.ReadWords(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			if len(list) == 0 {
				return fmt.Errorf("%s: no 5-letter words", args[1])
			}

			db, st, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := st.Import(cmd.Context(), args[0], list)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "imported %d words into %s\n", n, args[0])
			return nil
		},
	}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List word lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := words.Init(a.cfg.AnswersFile, a.cfg.AllowedFile); err != nil {
				return err
			}
			res := &wordlist.Resolver{Lists: words.Default()}
			if db, st, err := open(); err == nil {
				defer db.Close()
				res.Store = st
			}
			lists, err := res.All(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tWORDS\tUPDATED")
			for _, l := range lists {
				updated := l.UpdatedAt
				if l.Builtin {
					updated = "builtin"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", l.Name, l.Count, updated)
			}
			return tw.Flush()
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, st, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(importCmd, lsCmd, rmCmd)
	return cmd
}

// newHashKeyCmd creates the hash-key command.
func (a *App) newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <key>",
		Short: "Print the bcrypt hash to use as ADMIN_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := httpserver.HashKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, h)
			return nil
		},
	}
}
