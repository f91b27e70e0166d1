package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/wordlist"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// sourceOptions selects the candidate list for solve and filter.
type sourceOptions struct {
	list      string
	wordsFile string
}

func (o *sourceOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.list, "list", "l", wordlist.BuiltinList, "Named word list (stored lists need DB_PATH)")
	cmd.Flags().StringVarP(&o.wordsFile, "words", "w", "", "Read candidates from a file, one word per line")
}

// dictionary builds the candidate dictionary described by o.
func (a *App) dictionary(ctx context.Context, o sourceOptions) (*solver.Dictionary, error) {
	if o.wordsFile != "" {
		f, err := os.Open(o.wordsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		list, err := words.ReadWords(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", o.wordsFile, err)
		}
		return solver.FromList(list)
	}

	if err := words.Init(a.cfg.AnswersFile, a.cfg.AllowedFile); err != nil {
		return nil, fmt.Errorf("load word lists: %w", err)
	}
	res := &wordlist.Resolver{Lists: words.Default()}
	if o.list != "" && o.list != wordlist.BuiltinList && a.cfg.DBPath != "" {
		db, err := wordlist.Open(a.cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		res.Store = wordlist.NewStore(db)
	}
	return res.Dictionary(ctx, o.list)
}

// parseRound splits "guess marks..." (space separated) or "guess=marks".
func parseRound(s string) (string, []game.Mark, error) {
	var guess, rest string
	if i := strings.IndexByte(s, '='); i >= 0 {
		guess, rest = s[:i], s[i+1:]
	} else {
		fields := strings.Fields(s)
		if len(fields) < 2 {
			return "", nil, fmt.Errorf("%w: want <guess> <marks>", game.ErrMarksLength)
		}
		guess, rest = fields[0], strings.Join(fields[1:], " ")
	}
	marks, err := game.ParseMarks(rest)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(guess), marks, nil
}

// -----------------------------------------------------------------------------
// filter

type filterOptions struct {
	sourceOptions
	rounds []string
	limit  int
}

// newFilterCmd creates the filter command.
func (a *App) newFilterCmd() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the candidates consistent with some guesses",
		Long: `Apply one or more rounds of feedback and print the surviving words.

Marks are one character per letter: g/c/2 = correct, y/m/1 = misplaced,
./x/- /0 = incorrect.

Examples:
  # LEAST against the hidden word LEAPT
  solver filter --round least=ggg.g

  # Two rounds over a custom list
  solver filter -w mywords.txt --round crane=..y.. --round slate=.yy..`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.filter(cmd.Context(), opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringArrayVarP(&opts.rounds, "round", "r", nil, "Round as guess=marks (repeatable)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Print at most n words (0 = all)")
	return cmd
}

func (a *App) filter(ctx context.Context, opts *filterOptions) error {
	dict, err := a.dictionary(ctx, opts.sourceOptions)
	if err != nil {
		return err
	}
	for i, r := range opts.rounds {
		guess, marks, err := parseRound(r)
		if err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}
		f, err := game.Encode(guess, marks)
		if err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}
		if dict, err = dict.Filter(f); err != nil {
			return err
		}
	}

	limit := opts.limit
	if limit <= 0 {
		limit = dict.Len()
	}
	for _, w := range dict.Slice(0, limit) {
		fmt.Fprintln(a.stdout, w)
	}
	fmt.Fprintf(a.stderr, "%d candidates\n", dict.Len())
	return nil
}

// -----------------------------------------------------------------------------
// solve

// newSolveCmd creates the interactive solve command.
func (a *App) newSolveCmd() *cobra.Command {
	opts := &sourceOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Narrow candidates interactively",
		Long: `Read one round per line as "<guess> <marks>" and print what remains.

Commands:
  list    print every remaining candidate
  reset   start over with the full list
  quit    exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd.Context(), *opts)
		},
	}

	opts.bind(cmd)
	return cmd
}

func (a *App) solve(ctx context.Context, opts sourceOptions) error {
	dict, err := a.dictionary(ctx, opts)
	if err != nil {
		return err
	}
	full := dict.Words()
	newSession := func() *game.Session {
		d, _ := solver.FromList(full)
		return game.NewSession(opts.list, d, "")
	}
	sess := newSession()
	a.printRemaining(sess)

	sc := bufio.NewScanner(a.stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "reset":
			sess = newSession()
			a.printRemaining(sess)
			continue
		case "list":
			for _, w := range sess.Remaining.Words() {
				fmt.Fprintln(a.stdout, w)
			}
			continue
		}

		guess, marks, err := parseRound(line)
		if err == nil {
			_, _, err = sess.ApplyFeedback(guess, marks)
		}
		if errors.Is(err, game.ErrFinished) {
			fmt.Fprintln(a.stdout, "session finished; type reset to start over")
			continue
		}
		if err != nil {
			fmt.Fprintf(a.stdout, "error: %v\n", err)
			continue
		}
		a.printRemaining(sess)
		if sess.Finished {
			fmt.Fprintf(a.stdout, "%s after %d rounds\n", sess.State(), len(sess.Rounds))
		}
	}
	return sc.Err()
}

func (a *App) printRemaining(sess *game.Session) {
	n := sess.Remaining.Len()
	sample := sess.Remaining.Slice(0, 10)
	if n > len(sample) {
		fmt.Fprintf(a.stdout, "%d candidates: %s ...\n", n, strings.Join(sample, " "))
		return
	}
	fmt.Fprintf(a.stdout, "%d candidates: %s\n", n, strings.Join(sample, " "))
}
