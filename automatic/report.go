package automatic

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/torus/board"
	"github.com/domino14/torus/deal"
	"github.com/domino14/torus/stats"
)

// keep at most this many long games in a report; the rest are only logged.
const maxNotable = 100

// NotableDeal is a deal whose best line leaves an unusually large score.
type NotableDeal struct {
	Fingerprint string `yaml:"fingerprint"`
	Board       string `yaml:"board"`
	Offset      int    `yaml:"offset"`
	Weight      uint64 `yaml:"weight"`
	Move        string `yaml:"move"`
	Score       int8   `yaml:"score"`
}

// tally is one worker's share of a survey.
type tally struct {
	deals     uint64
	weight    uint64
	winWeight uint64
	scores    [board.NumCells + 1]uint64
	treeSize  uint64
	scoreStat stats.Statistic
	treeStat  stats.Statistic
	notable   []NotableDeal
}

func (t *tally) addNotable(d deal.Deal, m board.Coord, score int8) {
	if len(t.notable) >= maxNotable {
		return
	}
	t.notable = append(t.notable, NotableDeal{
		Fingerprint: d.Board.FingerprintString(),
		Board:       d.Board.ToDisplayText(),
		Offset:      d.Offset,
		Weight:      d.Weight,
		Move:        m.String(),
		Score:       score,
	})
}

// Report is the reduction of a survey. Every count is weighted, so it
// describes all raw deals, not just the representatives searched.
type Report struct {
	Mode        Mode   `yaml:"mode"`
	Deals       uint64 `yaml:"deals"`
	TotalWeight uint64 `yaml:"total-weight"`
	// WinWeight is the weight of deals side 0 wins (wins and length modes).
	WinWeight uint64 `yaml:"win-weight"`
	// Scores[r] is the weight of deals whose best line ends with r cards left.
	Scores []uint64 `yaml:"scores,flow,omitempty"`
	// TreeSize is the weighted number of terminal lines (full mode).
	TreeSize       uint64        `yaml:"tree-size,omitempty"`
	ScoreMean      float64       `yaml:"score-mean,omitempty"`
	ScoreStdev     float64       `yaml:"score-stdev,omitempty"`
	TreeSizeMean   float64       `yaml:"tree-size-mean,omitempty"`
	TreeSizeStdev  float64       `yaml:"tree-size-stdev,omitempty"`
	Notable        []NotableDeal `yaml:"notable,omitempty"`
	Interrupted    bool          `yaml:"interrupted"`
	ElapsedSeconds float64       `yaml:"elapsed-seconds"`

	scoreStat stats.Statistic
	treeStat  stats.Statistic
}

func newReport(mode Mode) *Report {
	r := &Report{Mode: mode}
	if mode == ModeLength {
		r.Scores = make([]uint64, board.NumCells+1)
	}
	return r
}

func (r *Report) merge(t *tally) {
	r.Deals += t.deals
	r.TotalWeight += t.weight
	r.WinWeight += t.winWeight
	r.TreeSize += t.treeSize
	for i := range r.Scores {
		r.Scores[i] += t.scores[i]
	}
	r.scoreStat.Merge(&t.scoreStat)
	r.treeStat.Merge(&t.treeStat)
	r.ScoreMean = r.scoreStat.Mean()
	r.ScoreStdev = r.scoreStat.Stdev()
	r.TreeSizeMean = r.treeStat.Mean()
	r.TreeSizeStdev = r.treeStat.Stdev()
	room := maxNotable - len(r.Notable)
	r.Notable = append(r.Notable, t.notable[:min(room, len(t.notable))]...)
}

// WinFraction is the weighted share of deals side 0 wins.
func (r *Report) WinFraction() float64 {
	if r.TotalWeight == 0 {
		return 0
	}
	return float64(r.WinWeight) / float64(r.TotalWeight)
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Considering %d boards representing %d deals\n", r.Deals, r.TotalWeight)
	switch r.Mode {
	case ModeWins:
		fmt.Fprintf(&sb, "R wins %d total (%.4f%%)\n", r.WinWeight, 100*r.WinFraction())
	case ModeLength:
		fmt.Fprintf(&sb, "Scores: %v\n", r.Scores)
		fmt.Fprintf(&sb, "R wins %d total (%.4f%%)\n", r.WinWeight, 100*r.WinFraction())
		fmt.Fprintf(&sb, "Mean cards remaining: %.3f (stdev %.3f)\n", r.ScoreMean, r.ScoreStdev)
	case ModeFull:
		fmt.Fprintf(&sb, "%d games considered in total\n", r.TreeSize)
		fmt.Fprintf(&sb, "Mean lines per deal: %.1f (stdev %.1f)\n", r.TreeSizeMean, r.TreeSizeStdev)
	}
	if r.Interrupted {
		sb.WriteString("Survey was interrupted; totals are partial.\n")
	}
	return sb.String()
}

// HistogramText draws the score histogram of a length survey, one bucket
// per score from the lowest to the highest seen.
func (r *Report) HistogramText(width int) (string, error) {
	if len(r.Scores) == 0 || r.TotalWeight == 0 {
		return "", fmt.Errorf("no score histogram for a %s survey", r.Mode)
	}
	low, high := scoreRange(r.Scores)
	h := histogram.Histogram{Count: int(r.TotalWeight)}
	first := true
	for s := low; s <= high; s++ {
		c := int(r.Scores[s])
		h.Buckets = append(h.Buckets, histogram.Bucket{
			Count: c,
			Min:   float64(s),
			Max:   float64(s + 1),
		})
		if first || c < h.Min {
			h.Min = c
		}
		if first || c > h.Max {
			h.Max = c
		}
		first = false
	}
	var sb strings.Builder
	if err := histogram.Fprint(&sb, h, histogram.Linear(width)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func scoreRange(scores []uint64) (int, int) {
	nonzero := lo.FilterMap(scores, func(c uint64, i int) (int, bool) {
		return i, c > 0
	})
	if len(nonzero) == 0 {
		return 0, 0
	}
	return lo.Min(nonzero), lo.Max(nonzero)
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
