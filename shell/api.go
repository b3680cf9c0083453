package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/torus/automatic"
	"github.com/domino14/torus/board"
	"github.com/domino14/torus/cache"
	"github.com/domino14/torus/config"
	"github.com/domino14/torus/deal"
	"github.com/domino14/torus/solver"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	ret, err := sc.options.Set(opt, cmd.args[1:])
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage()
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) newBoard(cmd *shellcmd) (*Response, error) {
	sc.board = board.NewBoard()
	return msg(sc.board.ToDisplayText()), nil
}

// parseCards reads sixteen card values in row-major order. Anything that is
// not a digit separates rows for readability and is ignored.
func parseCards(s string) ([board.NumCells]uint8, error) {
	var cards [board.NumCells]uint8
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if n == board.NumCells {
			return cards, fmt.Errorf("more than %d cards in %q", board.NumCells, s)
		}
		cards[n] = uint8(r - '0')
		n++
	}
	if n != board.NumCells {
		return cards, fmt.Errorf("need %d cards, found %d in %q", board.NumCells, n, s)
	}
	return cards, nil
}

func (sc *ShellController) setup(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: setup <cards> <r,c of R> <r,c of B>")
	}
	cards, err := parseCards(cmd.args[0])
	if err != nil {
		return nil, err
	}
	p0, err := board.ParseCoord(cmd.args[1])
	if err != nil {
		return nil, err
	}
	p1, err := board.ParseCoord(cmd.args[2])
	if err != nil {
		return nil, err
	}
	b, err := board.FromCards(cards, p0, p1)
	if err != nil {
		return nil, err
	}
	sc.board = b
	return msg(sc.board.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.board.ToDisplayText() + "\nFingerprint: " + sc.board.FingerprintString()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	moves := sc.board.LegalMoves()
	side := board.SideName[sc.board.Turn()]
	if len(moves) == 0 {
		return msg(side + " has no legal moves and loses"), nil
	}
	strs := lo.Map(moves, func(m board.Coord, _ int) string { return m.String() })
	return msg(fmt.Sprintf("%s has %d legal moves: %s", side, len(moves), strings.Join(strs, " "))), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play r,c")
	}
	dest, err := board.ParseCoord(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.board.PlayMove(dest); err != nil {
		return nil, err
	}
	return msg(sc.board.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.board.MovesPlayed() == 0 {
		return nil, errors.New("nothing to undo")
	}
	sc.board.UndoMove()
	return msg(sc.board.ToDisplayText()), nil
}

// newSolver returns a solver on the shell's board, with the shared
// transposition table if it is turned on.
func (sc *ShellController) newSolver() *solver.Solver {
	s := solver.NewSolver(sc.board)
	if !sc.options.useTable {
		return s
	}
	if sc.ttable == nil || sc.ttable.Len() != 1<<sc.options.tableSizeP2 {
		sc.ttable = solver.NewTranspositionTable(sc.options.tableSizeP2)
	}
	s.SetTranspositionTable(sc.ttable, cache.Zobrist())
	return s
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	s := sc.newSolver()
	side := sc.board.Turn()
	tstart := time.Now()
	m, ok := s.WinningMove()
	log.Debug().Uint64("nodes", s.Nodes()).Dur("elapsed", time.Since(tstart)).Msg("solve-returning")
	return msg(solveText(side, m, ok)), nil
}

func solveText(side int, m board.Coord, ok bool) string {
	if ok {
		return fmt.Sprintf("%s wins by playing %s", board.SideName[side], m)
	}
	return fmt.Sprintf("%s wins, whatever %s plays", board.SideName[1-side], board.SideName[side])
}

func (sc *ShellController) score(cmd *shellcmd) (*Response, error) {
	s := sc.newSolver()
	tstart := time.Now()
	m, ok, score := s.BestMoveByCardsRemaining()
	log.Debug().Uint64("nodes", s.Nodes()).Dur("elapsed", time.Since(tstart)).Msg("score-returning")
	return msg(scoreText(sc.board.Turn(), m, ok, score)), nil
}

func scoreText(side int, m board.Coord, ok bool, score int8) string {
	if !ok {
		return fmt.Sprintf("%s cannot move; the score is %d", board.SideName[side], score)
	}
	return fmt.Sprintf("%s plays %s and gets a score of %d", board.SideName[side], m, score)
}

func (sc *ShellController) count(cmd *shellcmd) (*Response, error) {
	s := solver.NewSolver(sc.board)
	if !cmd.options.Bool("by-move") {
		return msg(fmt.Sprintf("%d games considered", s.CountTerminalLines())), nil
	}
	byMove := s.CountTerminalLinesByFirstMove()
	var sb strings.Builder
	var total uint64
	for _, m := range sc.board.LegalMoves() {
		fmt.Fprintf(&sb, "%s: %d\n", m, byMove[m])
		total += byMove[m]
	}
	fmt.Fprintf(&sb, "%d games considered", total)
	return msg(sb.String()), nil
}

func (sc *ShellController) simulate(cmd *shellcmd) (*Response, error) {
	var buf bytes.Buffer
	winner := automatic.Simulate(sc.board.Copy(), &buf)
	buf.WriteString(board.SideName[winner] + " wins")
	return msg(buf.String()), nil
}

// deals with no arguments summarizes the deal enumeration; `deals <n>`
// loads the nth deal (counting from 0) onto the board.
func (sc *ShellController) deals(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		counts := deal.DefaultCounts
		fmt.Fprintf(&sb, "Considering %d boards representing %d deals\n",
			deal.BoardCount(counts), deal.TotalWeight(counts))
		fmt.Fprintf(&sb, "%d card arrangements per pawn offset\n", deal.PermutationCount(counts))
		for _, o := range deal.Offsets() {
			fmt.Fprintf(&sb, "  B at %s stands for %d cells\n", o.Coord(), o.Weight)
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || uint64(n) >= deal.BoardCount(deal.DefaultCounts) {
		return nil, fmt.Errorf("deal number must be between 0 and %d", deal.BoardCount(deal.DefaultCounts)-1)
	}
	i := 0
	for d := range deal.All() {
		if i == n {
			sc.board = d.Board
			return msg(fmt.Sprintf("%s\nDeal %d stands for %d deals", d.Board.ToDisplayText(), n, d.Weight)), nil
		}
		i++
	}
	return nil, errors.New("deal not found")
}

type surveyParams struct {
	mode    automatic.Mode
	threads int
	limit   int
	out     string
	hist    int
}

func (sc *ShellController) surveyPrepare(cmd *shellcmd) (*surveyParams, error) {
	if sc.surveying() {
		return nil, errSurveying
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: survey wins|length|full [-threads n] [-limit n] [-out file] [-hist width]")
	}
	mode, err := automatic.ParseMode(cmd.args[0])
	if err != nil {
		return nil, err
	}
	params := &surveyParams{mode: mode, out: cmd.options.String("out")}
	if params.threads, err = cmd.options.IntDefault("threads", sc.options.threads); err != nil {
		return nil, err
	}
	if params.limit, err = cmd.options.IntDefault("limit", 0); err != nil {
		return nil, err
	}
	if params.hist, err = cmd.options.IntDefault("hist", 50); err != nil {
		return nil, err
	}
	if sc.runner == nil {
		sc.runner = automatic.NewRunner(sc.config)
	}
	sc.runner.SetThreads(params.threads)
	return params, nil
}

func (sc *ShellController) reportPath(params *surveyParams) string {
	if params.out != "" {
		return params.out
	}
	dir := sc.config.GetString(config.ConfigReportPath)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("survey-%s-%s.yaml", params.mode, time.Now().Format("20060102-150405")))
}

func (sc *ShellController) surveyRunSync(ctx context.Context, params *surveyParams) (string, error) {
	deals := deal.All()
	if params.limit > 0 {
		deals = deal.Limit(deals, params.limit)
	}
	rep, err := sc.runner.Run(ctx, params.mode, deals)
	if err != nil {
		return "", err
	}
	sc.lastReport = rep

	var result strings.Builder
	result.WriteString(rep.String())
	if params.mode == automatic.ModeLength && params.hist > 0 {
		h, err := rep.HistogramText(params.hist)
		if err != nil {
			return "", err
		}
		result.WriteString(h)
	}
	if path := sc.reportPath(params); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := rep.WriteYAML(f); err != nil {
			return "", err
		}
		result.WriteString("Report written to " + path + "\n")
	}
	return strings.TrimRight(result.String(), "\n"), nil
}

// surveySync runs a survey to completion. This is the method for scripts
// and one-shot commands.
func (sc *ShellController) surveySync(cmd *shellcmd) (*Response, error) {
	params, err := sc.surveyPrepare(cmd)
	if err != nil {
		return nil, err
	}
	result, err := sc.surveyRunSync(context.Background(), params)
	if err != nil {
		return nil, err
	}
	return msg(result), nil
}

// survey runs in the background for interactive use.
func (sc *ShellController) survey(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		if !sc.surveying() {
			return nil, errors.New("no survey to cancel")
		}
		sc.surveyCancel()
		return msg("stopping survey..."), nil
	}
	if len(cmd.args) > 0 && cmd.args[0] == "status" {
		if !sc.surveying() {
			return msg("no survey running"), nil
		}
		return msg(fmt.Sprintf("%d deals done", sc.runner.DealsDone())), nil
	}
	if len(cmd.args) > 0 && cmd.args[0] == "report" {
		if sc.surveying() {
			return nil, errSurveying
		}
		if sc.lastReport == nil {
			return nil, errors.New("no survey has been run yet")
		}
		return msg(strings.TrimRight(sc.lastReport.String(), "\n")), nil
	}

	params, err := sc.surveyPrepare(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.surveyCancel = cancel
	sc.surveyDone = done

	go func() {
		defer close(done)
		defer cancel()
		result, err := sc.surveyRunSync(ctx, params)
		if err != nil {
			sc.showError(err)
			return
		}
		sc.showMessage(result)
	}()

	return msg(fmt.Sprintf("survey %s started with %d threads", params.mode, params.threads)), nil
}
