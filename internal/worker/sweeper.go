package worker

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/infra/redislock"
	"courtside/internal/pkg/config"
	"courtside/internal/usecase/commands"

	"github.com/google/uuid"
)

const sweeperLockName = "sweeper:leader"

// Sweeper periodically advances reservations the users abandoned: lapsed
// holds, no-shows and sessions that ran past their end. A Redis lock keeps
// concurrent instances from sweeping the same pass; per-item status gates
// make an occasional double sweep harmless anyway.
type Sweeper struct {
	commands commands.SweeperCommands
	locker   *redislock.Locker
	cfg      config.SweeperConfig
	owner    string
}

func NewSweeper(cmds commands.SweeperCommands, locker *redislock.Locker, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		commands: cmds,
		locker:   locker,
		cfg:      cfg,
		owner:    uuid.NewString(),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Sweeper) runPass(ctx context.Context) {
	ok, err := s.locker.Acquire(ctx, sweeperLockName, s.owner, s.cfg.LockTTL)
	if err != nil {
		slog.Warn("sweeper lock acquisition failed", "error", err.Error())
		return
	}
	if !ok {
		return
	}
	defer func() {
		if err := s.locker.Release(ctx, sweeperLockName, s.owner); err != nil {
			slog.Warn("sweeper lock release failed", "error", err.Error())
		}
	}()

	expired, err := s.commands.ExpirePending(ctx)
	if err != nil {
		slog.Error("expire pass failed", "error", err.Error())
	}

	noShows, err := s.commands.MarkNoShows(ctx)
	if err != nil {
		slog.Error("no-show pass failed", "error", err.Error())
	}

	completed, err := s.commands.AutoComplete(ctx)
	if err != nil {
		slog.Error("auto-complete pass failed", "error", err.Error())
	}

	if expired+noShows+completed > 0 {
		slog.Info("sweep pass done",
			"expired", expired,
			"no_shows", noShows,
			"auto_completed", completed)
	}
}
