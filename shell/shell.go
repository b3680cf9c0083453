package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/torus/automatic"
	"github.com/domino14/torus/board"
	"github.com/domino14/torus/config"
	"github.com/domino14/torus/solver"
)

var errSurveying = errors.New("a survey is running; use `survey stop` to cancel it")

type ShellController struct {
	l          *readline.Instance
	out        io.Writer
	outMu      sync.Mutex
	config     *config.Config
	execPath   string
	gitVersion string
	options    *ShellOptions

	board  *board.Board
	ttable *solver.TranspositionTable

	runner       *automatic.Runner
	surveyCancel context.CancelFunc
	surveyDone   chan struct{}
	lastReport   *automatic.Report
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	sc.outMu.Lock()
	defer sc.outMu.Unlock()
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtorus>\033[0m ",
		HistoryFile:     "/tmp/torus-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg, l.Stderr())
	sc.l = l
	sc.execPath = execPath
	sc.gitVersion = gitVersion
	return sc
}

// newController builds a shell with no terminal attached; output goes to w.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	opts := NewShellOptions()
	opts.SetDefaults(cfg)
	return &ShellController{
		out:     w,
		config:  cfg,
		options: opts,
		board:   board.NewBoard(),
	}
}

func (sc *ShellController) surveying() bool {
	if sc.surveyDone == nil {
		return false
	}
	select {
	case <-sc.surveyDone:
		return false
	default:
		return true
	}
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		sig <- syscall.SIGINT
		return nil, nil
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newBoard(cmd)
	case "setup":
		return sc.setup(cmd)
	case "show":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "solve":
		return sc.solve(cmd)
	case "score":
		return sc.score(cmd)
	case "count":
		return sc.count(cmd)
	case "simulate":
		return sc.simulate(cmd)
	case "survey":
		return sc.survey(cmd)
	case "deals":
		return sc.deals(cmd)
	case "script":
		return sc.script(cmd)
	case "set":
		return sc.set(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, for non-interactive use. Surveys
// run to completion before it returns.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return
	}
	var resp *Response
	if cmd.cmd == "survey" {
		resp, err = sc.surveySync(cmd)
	} else {
		resp, err = sc.standardModeSwitch(line, sig)
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			sc.showError(err)
		} else if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any survey in progress and waits for it to wind down.
func (sc *ShellController) Cleanup() {
	if sc.surveying() {
		log.Info().Msg("stopping survey")
		sc.surveyCancel()
		<-sc.surveyDone
	}
}
