// Package automatic runs the searches over many deals at once and reduces
// the results into a single report. It also plays games out on its own.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/torus/cache"
	"github.com/domino14/torus/config"
	"github.com/domino14/torus/deal"
	"github.com/domino14/torus/solver"
	"github.com/domino14/torus/zobrist"
)

type Mode int

const (
	// ModeWins sums the weight of every deal side 0 can win.
	ModeWins Mode = iota
	// ModeLength tallies the weighted cards-remaining score of every deal.
	ModeLength
	// ModeFull sums weight times the number of terminal lines of every deal.
	ModeFull
)

var modeNames = map[Mode]string{
	ModeWins:   "wins",
	ModeLength: "length",
	ModeFull:   "full",
}

var ErrUnknownMode = errors.New("unknown survey mode")

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func ParseMode(s string) (Mode, error) {
	for m, n := range modeNames {
		if n == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want wins, length or full)", ErrUnknownMode, s)
}

// a deal whose score magnitude exceeds this is logged.
const longGameThreshold = 8

// Runner fans deals out to a pool of workers. Every worker owns its own
// solver and, when enabled, its own transposition table; the zobrist keys
// are shared read-only.
type Runner struct {
	threads          int
	ttSizePower      int
	ttFraction       float64
	progressInterval time.Duration
	zobrist          *zobrist.Zobrist

	dealsDone atomic.Uint64
	nodes     atomic.Uint64
	running   atomic.Bool
}

func NewRunner(cfg *config.Config) *Runner {
	r := &Runner{
		ttSizePower:      cfg.GetInt(config.ConfigTTSizePower),
		ttFraction:       cfg.GetFloat64(config.ConfigTTFraction),
		progressInterval: time.Duration(cfg.GetInt(config.ConfigProgressSeconds)) * time.Second,
		zobrist:          cache.Zobrist(),
	}
	r.SetThreads(cfg.GetInt(config.ConfigThreads))
	return r
}

func (r *Runner) SetThreads(t int) {
	r.threads = max(1, t)
}

func (r *Runner) Threads() int {
	return r.threads
}

// SetTableSizePowerOf2 gives each worker a table of 2^p entries. p = 0
// falls back to the memory fraction; a negative p turns tables off.
func (r *Runner) SetTableSizePowerOf2(p int) {
	r.ttSizePower = p
}

// DealsDone is the number of deals finished by the current or last run.
func (r *Runner) DealsDone() uint64 {
	return r.dealsDone.Load()
}

func (r *Runner) newTable(mode Mode) *solver.TranspositionTable {
	if mode == ModeFull || r.ttSizePower < 0 {
		return nil
	}
	if r.ttSizePower > 0 {
		return solver.NewTranspositionTable(r.ttSizePower)
	}
	if r.ttFraction <= 0 {
		return nil
	}
	tt := &solver.TranspositionTable{}
	tt.Reset(r.ttFraction / float64(r.threads))
	return tt
}

// Run solves every deal in deals with the search named by mode and reduces
// the results. If ctx is cancelled the deals already handed out are
// finished and a partial report comes back with Interrupted set. A panic
// inside one deal's search stops the run with an error.
func (r *Runner) Run(ctx context.Context, mode Mode, deals iter.Seq[deal.Deal]) (*Report, error) {
	if _, ok := modeNames[mode]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, errors.New("a survey is already running, please wait till complete")
	}
	defer r.running.Store(false)

	r.dealsDone.Store(0)
	r.nodes.Store(0)
	log.Info().Str("mode", mode.String()).Int("threads", r.threads).Msg("survey-starting")

	tallies := make([]tally, r.threads)
	jobs := make(chan deal.Deal, r.threads*4)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for d := range deals {
			select {
			case jobs <- d:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for t := range r.threads {
		g.Go(func() error {
			return r.worker(gctx, t, mode, jobs, &tallies[t])
		})
	}

	done := make(chan struct{})
	ctrl := errgroup.Group{}
	tstart := time.Now()
	if r.progressInterval > 0 {
		ctrl.Go(func() error {
			r.logProgress(done, tstart)
			return nil
		})
	}

	err := g.Wait()
	close(done)
	ctrl.Wait()
	elapsed := time.Since(tstart)
	if err != nil {
		log.Err(err).Msg("survey-failed")
		return nil, err
	}

	rep := newReport(mode)
	for i := range tallies {
		rep.merge(&tallies[i])
	}
	rep.Interrupted = ctx.Err() != nil
	rep.ElapsedSeconds = elapsed.Seconds()
	log.Info().Str("mode", mode.String()).Uint64("deals", rep.Deals).
		Uint64("nodes", r.nodes.Load()).Float64("seconds", elapsed.Seconds()).
		Bool("interrupted", rep.Interrupted).Msg("survey-finished")
	return rep, nil
}

func (r *Runner) logProgress(done <-chan struct{}, tstart time.Time) {
	ticker := time.NewTicker(r.progressInterval)
	defer ticker.Stop()
	var lastDeals, lastNodes uint64
	lastTime := tstart
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			deals := r.dealsDone.Load()
			nodes := r.nodes.Load()
			secs := now.Sub(lastTime).Seconds()
			log.Info().
				Uint64("deals", deals).
				Float64("deals-per-second", float64(deals-lastDeals)/secs).
				Float64("nodes-per-second", float64(nodes-lastNodes)/secs).
				Msg("survey-progress")
			lastDeals, lastNodes, lastTime = deals, nodes, now
		}
	}
}

func (r *Runner) worker(ctx context.Context, thread int, mode Mode, jobs <-chan deal.Deal, out *tally) (err error) {
	tt := r.newTable(mode)
	s := &solver.Solver{}
	var current deal.Deal
	defer func() {
		if rec := recover(); rec != nil {
			fp := "none"
			if current.Board != nil {
				fp = current.Board.FingerprintString()
			}
			err = fmt.Errorf("thread %d: search panicked on deal %s: %v", thread, fp, rec)
		}
	}()
	for d := range jobs {
		if ctx.Err() != nil {
			// keep draining so the producer never blocks
			continue
		}
		current = d
		s.Init(d.Board)
		if tt != nil {
			s.SetTranspositionTable(tt, r.zobrist)
		}
		r.solveOne(mode, s, d, out)
		r.nodes.Add(s.Nodes())
		s.ResetNodes()
		r.dealsDone.Add(1)
	}
	if tt != nil {
		st := tt.Stats()
		log.Debug().Int("thread", thread).Uint64("lookups", st.Lookups).
			Uint64("hits", st.Hits).Uint64("collisions", st.Collisions).
			Msg("transposition-table-stats")
	}
	return nil
}

func (r *Runner) solveOne(mode Mode, s *solver.Solver, d deal.Deal, out *tally) {
	out.deals++
	out.weight += d.Weight
	switch mode {
	case ModeWins:
		if s.CanForceWin() {
			out.winWeight += d.Weight
		}
	case ModeLength:
		m, _, score := s.BestMoveByCardsRemaining()
		abs := int(score)
		if abs < 0 {
			abs = -abs
		}
		out.scores[abs] += d.Weight
		out.scoreStat.PushWeighted(float64(abs), float64(d.Weight))
		if score > 0 {
			out.winWeight += d.Weight
		}
		if abs > longGameThreshold {
			log.Info().Str("fingerprint", d.Board.FingerprintString()).
				Int("offset", d.Offset).Str("move", m.String()).
				Int8("score", score).Msg("long-game")
			out.addNotable(d, m, score)
		}
	case ModeFull:
		lines := s.CountTerminalLines()
		out.treeSize += lines * d.Weight
		out.treeStat.PushWeighted(float64(lines), float64(d.Weight))
	}
}
