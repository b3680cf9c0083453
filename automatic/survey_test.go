package automatic

import (
	"bytes"
	"context"
	"iter"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/domino14/torus/config"
	"github.com/domino14/torus/deal"
	"github.com/domino14/torus/solver"
	"github.com/domino14/torus/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// few live cards so every search is quick.
var sparseCounts = deal.Counts{9, 2, 2, 1, 0}

func sparseDeals(t *testing.T, n int) iter.Seq[deal.Deal] {
	t.Helper()
	seq, err := deal.Generate(sparseCounts)
	require.NoError(t, err)
	return deal.Limit(seq, n)
}

func newTestRunner(t *testing.T, threads, ttPower int) *Runner {
	t.Helper()
	r := NewRunner(config.DefaultConfig())
	r.SetThreads(threads)
	r.SetTableSizePowerOf2(ttPower)
	return r
}

func serialTally(t *testing.T, n int) (wins uint64, scores [17]uint64, lines uint64, weight uint64) {
	t.Helper()
	for d := range sparseDeals(t, n) {
		s := solver.NewSolver(d.Board)
		if s.CanForceWin() {
			wins += d.Weight
		}
		_, _, score := s.BestMoveByCardsRemaining()
		if score < 0 {
			score = -score
		}
		scores[score] += d.Weight
		lines += d.Weight * s.CountTerminalLines()
		weight += d.Weight
	}
	return
}

func TestRunMatchesSerial(t *testing.T) {
	const n = 3000
	wins, scores, lines, weight := serialTally(t, n)

	for _, ttPower := range []int{-1, 12} {
		r := newTestRunner(t, 3, ttPower)

		rep, err := r.Run(context.Background(), ModeWins, sparseDeals(t, n))
		require.NoError(t, err)
		assert.Equal(t, uint64(n), rep.Deals)
		assert.Equal(t, weight, rep.TotalWeight)
		assert.Equal(t, wins, rep.WinWeight)
		assert.InDelta(t, float64(wins)/float64(weight), rep.WinFraction(), 1e-12)
		assert.False(t, rep.Interrupted)

		rep, err = r.Run(context.Background(), ModeLength, sparseDeals(t, n))
		require.NoError(t, err)
		assert.Equal(t, scores[:], rep.Scores)
		// the score sign and the win search agree
		assert.Equal(t, wins, rep.WinWeight)

		rep, err = r.Run(context.Background(), ModeFull, sparseDeals(t, n))
		require.NoError(t, err)
		assert.Equal(t, lines, rep.TreeSize)
		assert.Equal(t, uint64(n), r.DealsDone())
	}
}

func TestRunCancelled(t *testing.T) {
	is := is.New(t)
	r := newTestRunner(t, 2, -1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := r.Run(ctx, ModeWins, sparseDeals(t, 1000))
	is.NoErr(err)
	is.True(rep.Interrupted)
	is.True(rep.Deals < 1000)
	is.True(strings.Contains(rep.String(), "interrupted"))
}

func TestRunPanicBecomesError(t *testing.T) {
	is := is.New(t)
	r := newTestRunner(t, 2, -1)
	good := sparseDeals(t, 10)
	bad := func(yield func(deal.Deal) bool) {
		for d := range good {
			if !yield(d) {
				return
			}
		}
		yield(deal.Deal{Weight: 1})
	}
	rep, err := r.Run(context.Background(), ModeWins, bad)
	is.True(err != nil)
	is.True(rep == nil)
	is.True(strings.Contains(err.Error(), "panicked"))

	// the runner is usable again
	rep, err = r.Run(context.Background(), ModeWins, sparseDeals(t, 10))
	is.NoErr(err)
	is.Equal(rep.Deals, uint64(10))
}

func TestRunUnknownMode(t *testing.T) {
	r := newTestRunner(t, 1, -1)
	_, err := r.Run(context.Background(), Mode(7), sparseDeals(t, 1))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	is := is.New(t)
	for _, m := range []Mode{ModeWins, ModeLength, ModeFull} {
		got, err := ParseMode(m.String())
		is.NoErr(err)
		is.Equal(got, m)
	}
	_, err := ParseMode("everything")
	is.True(err != nil)
}

func TestReportOutputs(t *testing.T) {
	is := is.New(t)
	r := newTestRunner(t, 2, 12)
	rep, err := r.Run(context.Background(), ModeLength, sparseDeals(t, 500))
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(rep.WriteYAML(&buf))
	var decoded map[string]any
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &decoded))
	is.Equal(decoded["mode"], "length")
	is.Equal(decoded["deals"], 500)
	is.Equal(len(decoded["scores"].([]any)), 17)

	text, err := rep.HistogramText(40)
	is.NoErr(err)
	is.True(len(text) > 0)
	is.True(strings.Contains(rep.String(), "Scores:"))

	rep, err = r.Run(context.Background(), ModeWins, sparseDeals(t, 10))
	is.NoErr(err)
	_, err = rep.HistogramText(40)
	is.True(err != nil)
}

func TestSimulate(t *testing.T) {
	is := is.New(t)
	for depth := 6; depth <= 9; depth++ {
		b := testhelpers.LateGame(depth)
		starter := b.Turn()
		starterWins := solver.NewSolver(b.Copy()).CanForceWin()

		var out bytes.Buffer
		winner := Simulate(b, &out)
		is.Equal(len(b.LegalMoves()), 0)
		is.Equal(winner, 1-b.Turn())
		is.True(strings.Contains(out.String(), "loses"))
		if starterWins {
			is.Equal(winner, starter)
		}
	}
}
