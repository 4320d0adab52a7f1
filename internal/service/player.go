package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quizplayer/backend/internal/catalog"
	"github.com/quizplayer/backend/internal/combiner"
	"github.com/quizplayer/backend/internal/domain/level"
	practicesession "github.com/quizplayer/backend/internal/domain/practice_session"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/id"
)

var ErrPlayerNotFound = errors.New("player not found")

// QuizSource is the quiz tree a player browses and loads from.
type QuizSource interface {
	combiner.Fetcher
	Browse(ctx context.Context, folder string) (catalog.View, error)
}

// Player is the state of one quiz player: where it is browsing and the quiz
// it has loaded. Players are independent of each other.
type Player struct {
	ID      string
	Nav     *Navigator
	Session *practicesession.Store

	lastSeen atomic.Int64 // unix nanos of the last lookup
}

func (p *Player) touch(now time.Time) {
	p.lastSeen.Store(now.UnixNano())
}

// LastSeen returns when the player was last created or looked up.
func (p *Player) LastSeen() time.Time {
	return time.Unix(0, p.lastSeen.Load())
}

// PlayerService creates players and runs the operations that cross the
// quiz source and a player's session.
type PlayerService struct {
	source  QuizSource
	session practicesession.Config
	logger  *slog.Logger

	mu      sync.RWMutex
	players map[string]*Player // playerID → Player
}

// NewPlayerService creates a PlayerService.
func NewPlayerService(source QuizSource, session practicesession.Config, logger *slog.Logger) *PlayerService {
	return &PlayerService{
		source:  source,
		session: session,
		logger:  logger,
		players: make(map[string]*Player),
	}
}

// Create registers a new player with an empty session.
func (ps *PlayerService) Create() *Player {
	p := &Player{
		ID:      id.GenerateID(),
		Nav:     &Navigator{},
		Session: practicesession.NewStore(ps.session),
	}
	p.touch(time.Now())

	ps.mu.Lock()
	ps.players[p.ID] = p
	ps.mu.Unlock()

	ps.logger.Info("player created", "player_id", p.ID)
	return p
}

// Get returns a registered player.
func (ps *PlayerService) Get(playerID string) (*Player, error) {
	ps.mu.RLock()
	p, ok := ps.players[playerID]
	ps.mu.RUnlock()

	if !ok {
		return nil, ErrPlayerNotFound
	}
	p.touch(time.Now())
	return p, nil
}

// Delete forgets a player and its session.
func (ps *PlayerService) Delete(playerID string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, ok := ps.players[playerID]; !ok {
		return ErrPlayerNotFound
	}
	delete(ps.players, playerID)
	return nil
}

// EvictIdle forgets every player not seen since cutoff and returns how
// many were removed.
func (ps *PlayerService) EvictIdle(cutoff time.Time) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	evicted := 0
	for playerID, p := range ps.players {
		if p.LastSeen().Before(cutoff) {
			delete(ps.players, playerID)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of registered players.
func (ps *PlayerService) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.players)
}

// SweepIdle evicts players idle for longer than ttl every interval until
// ctx is cancelled. A non-positive ttl disables the sweep.
func (ps *PlayerService) SweepIdle(ctx context.Context, interval, ttl time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := ps.EvictIdle(now.Add(-ttl)); n > 0 {
				ps.logger.Info("idle players evicted", "evicted", n, "remaining", ps.Len())
			}
		}
	}
}

// Browse lists a folder for the player. When the listing lands and no newer
// navigation has been issued meanwhile, the player's current folder moves
// and its quiz session is discarded. A superseded listing returns
// ErrStaleNavigation and changes nothing.
func (ps *PlayerService) Browse(ctx context.Context, playerID, folder string) (catalog.View, error) {
	p, err := ps.Get(playerID)
	if err != nil {
		return catalog.View{}, err
	}

	requestID := p.Nav.Begin()
	view, err := ps.source.Browse(ctx, folder)
	if err != nil {
		return catalog.View{}, err
	}

	if err := p.Nav.Commit(requestID, view.Folder, p.Session.Clear); err != nil {
		ps.logger.Debug("discarding stale listing",
			"player_id", playerID,
			"request_id", requestID,
			"folder", view.Folder,
		)
		return catalog.View{}, err
	}
	return view, nil
}

// LoadQuiz fetches and parses one quiz file and starts a session on it.
func (ps *PlayerService) LoadQuiz(ctx context.Context, playerID, quizPath string, levels []level.Level) error {
	p, err := ps.Get(playerID)
	if err != nil {
		return err
	}

	raw, err := ps.source.Fetch(ctx, quizPath)
	if err != nil {
		return err
	}
	bank := questionbank.New(quizPath, raw)
	if len(bank.Questions) == 0 {
		return fmt.Errorf("%s: %w", quizPath, questionbank.ErrNoQuestions)
	}

	if err := p.Session.StartSession(bank.Questions, levels, bank.Name); err != nil {
		return err
	}

	ps.logger.Info("quiz loaded",
		"player_id", playerID,
		"quiz", bank.Name,
		"questions", len(bank.Questions),
		"levels", len(bank.LevelCounts),
	)
	return nil
}

// LoadCombined merges several quiz files into one bank and starts a
// session on it. A failed combine leaves the current session untouched.
func (ps *PlayerService) LoadCombined(ctx context.Context, playerID string, paths []string, levels []level.Level) error {
	p, err := ps.Get(playerID)
	if err != nil {
		return err
	}

	res, err := combiner.Combine(ctx, ps.source, paths)
	if err != nil {
		return err
	}

	if err := p.Session.StartSession(res.Questions, levels, res.SourceName); err != nil {
		return err
	}

	ps.logger.Info("combined quiz loaded",
		"player_id", playerID,
		"quizzes", len(paths),
		"questions", len(res.Questions),
	)
	return nil
}

// Title is the heading shown for a loaded source.
func Title(sourceName string) string {
	if sourceName == "" {
		return ""
	}
	return questionbank.DisplayName(path.Base(sourceName))
}
