package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
	"github.com/frahmantamala/hours-portal/pkg/logger"
)

// Repository loads and saves the AppState document through a KeyValue.
type Repository struct {
	kv              KeyValue
	defaultEndpoint string
	logger          *slog.Logger
}

func NewRepository(kv KeyValue, defaultEndpoint string, lg *slog.Logger) *Repository {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Repository{kv: kv, defaultEndpoint: defaultEndpoint, logger: lg}
}

// Load never fails to produce a usable state. A missing, unreadable or
// invalid document yields the default state; a backend failure yields the default
// state together with the error. The supervisor list is always replaced by
// the allow-list, and the current user is re-resolved against it.
func (r *Repository) Load(ctx context.Context) (AppState, error) {
	raw, err := r.kv.Get(ctx, StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		return r.Default(), nil
	}
	if err != nil {
		return r.Default(), fmt.Errorf("read state: %w", err)
	}

	var st AppState
	if err := json.Unmarshal(raw, &st); err != nil {
		r.logger.Warn("stored state is unreadable, starting from defaults", "key", StorageKey, "error", err)
		return r.Default(), nil
	}
	if err := st.Validate(); err != nil {
		r.logger.Warn("stored state is invalid, starting from defaults", "key", StorageKey, "error", err)
		return r.Default(), nil
	}
	if st.TimeSheets == nil {
		st.TimeSheets = []timesheet.WeeklyTimeSheet{}
	}

	st.Supervisors = supervisor.AllowList()
	if st.CurrentUser != nil {
		if sup, ok := supervisor.FindByID(st.Supervisors, st.CurrentUser.ID); ok {
			st.CurrentUser = &sup
		} else {
			st.CurrentUser = nil
		}
	}
	return st, nil
}

func (r *Repository) Save(ctx context.Context, st AppState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// Exists reports whether a document has been saved.
func (r *Repository) Exists(ctx context.Context) (bool, error) {
	_, err := r.kv.Get(ctx, StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repository) Default() AppState {
	return Default(r.defaultEndpoint)
}
