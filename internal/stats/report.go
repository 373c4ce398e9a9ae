package stats

import (
	"context"

	"github.com/verte-zerg/gyro/internal/model"
)

// Source is the history the report is built from. *store.Store satisfies it.
type Source interface {
	ListSessions(ctx context.Context) ([]model.SessionRecord, error)
	ListBlockAggregates(ctx context.Context, sessionIDs []string) ([]model.BlockAggregate, error)
	ListSymbolAggregates(ctx context.Context, sessionIDs []string) ([]model.SymbolAggregate, error)
	ListReactionTimes(ctx context.Context, sessionIDs []string) ([]int64, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions  []model.SessionRecord
	Blocks    []model.BlockAggregate
	Symbols   []model.SymbolAggregate
	Reactions []int64
}

// BuildReport loads every closed session and its aggregates.
func BuildReport(ctx context.Context, src Source) (Report, error) {
	sessions, err := src.ListSessions(ctx)
	if err != nil {
		return Report{}, err
	}
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	blocks, err := src.ListBlockAggregates(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	symbols, err := src.ListSymbolAggregates(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	reactions, err := src.ListReactionTimes(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions:  sessions,
		Blocks:    blocks,
		Symbols:   symbols,
		Reactions: reactions,
	}, nil
}

// Empty reports whether no session has been closed yet.
func (r Report) Empty() bool {
	return len(r.Sessions) == 0
}
