package product

import (
	"context"
	"sync"

	"github.com/angelmondragon/inventory-backend/pkg/logger"
	"github.com/angelmondragon/inventory-backend/pkg/metrics"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Sessioner hands out one scoped database session per unit of work.
type Sessioner interface {
	Session(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Reconciler fills an empty products table from the seed list.
type Reconciler struct {
	sessions Sessioner
	seed     []ProductDTO
}

func NewReconciler(sessions Sessioner, seed []ProductDTO) *Reconciler {
	return &Reconciler{sessions: sessions, seed: seed}
}

// Seed inserts every seed product when the table has no rows at all and
// reports how many were inserted. A table holding any rows is left alone,
// even if some seed ids are missing from it.
func (r *Reconciler) Seed(ctx context.Context) (int, error) {
	inserted := 0
	err := r.sessions.Session(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count != 0 {
			return nil
		}
		for _, p := range r.seed {
			if err := repo.Create(ctx, p.ToModel()); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// State records whether startup left the service without a usable database.
type State struct {
	mu  sync.RWMutex
	err error
}

func (s *State) Degraded() bool {
	return s.Err() != nil
}

// Err returns the combined startup failure, or nil when healthy.
func (s *State) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *State) markDegraded(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = multierr.Append(s.err, err)
}

type BootstrapParams struct {
	Sessions Sessioner
	Seed     []ProductDTO
	Logger   *logger.Logger
	Metrics  *metrics.StartupMetrics
}

// Bootstrap prepares the database before the server starts. Neither a failed
// table creation nor a failed seed stops the process; both are logged and
// folded into the returned State so health checks can report them.
func Bootstrap(ctx context.Context, p BootstrapParams) *State {
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	state := &State{}

	if err := p.Sessions.Session(ctx, func(tx *gorm.DB) error {
		return NewRepository(tx).EnsureSchema(ctx)
	}); err != nil {
		logg.Warn(ctx, "could not create tables on startup", err)
		state.markDegraded(err)
	}

	inserted, err := NewReconciler(p.Sessions, p.Seed).Seed(ctx)
	if err != nil {
		logg.Warn(ctx, "could not seed products on startup", err)
		state.markDegraded(err)
	} else {
		logg.Info(logg.WithField(ctx, "inserted", inserted), "product seed reconciled")
	}

	p.Metrics.AddSeeded(inserted)
	p.Metrics.SetDegraded(state.Degraded())
	return state
}
