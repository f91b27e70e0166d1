package wordlist

import (
	"context"
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Resolver maps a list name to a fresh candidate dictionary. The builtin
// list comes from the loaded word lists; other names from the Store.
type Resolver struct {
	Lists *words.Lists
	Store *Store // nil when no database is configured
}

// Dictionary returns a new Dictionary for name; "" means the builtin list.
func (r *Resolver) Dictionary(ctx context.Context, name string) (*solver.Dictionary, error) {
	if name == "" || name == BuiltinList {
		return r.Lists.Dictionary(), nil
	}
	if r.Store == nil {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, name)
	}
	return r.Store.Load(ctx, name)
}

// All returns the builtin list followed by the stored lists.
func (r *Resolver) All(ctx context.Context) ([]ListInfo, error) {
	n, _ := r.Lists.Stats()
	out := []ListInfo{{Name: BuiltinList, Count: n, Builtin: true}}
	if r.Store == nil {
		return out, nil
	}
	stored, err := r.Store.Lists(ctx)
	if err != nil {
		return nil, err
	}
	return append(out, stored...), nil
}
