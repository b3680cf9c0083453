package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/torus/board"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("torus_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// runCommand parses name + args as a shell line and runs it with handler,
// pushing the message (or the error text) onto the Lua stack.
func runCommand(L *lua.LState, line string, handler func(*ShellController, *shellcmd) (*Response, error)) int {
	sc := getShell(L)
	cmd, err := extractFields(line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-parsing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	r, err := handler(sc, cmd)
	if err != nil {
		log.Err(err).Str("cmd", cmd.cmd).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func New(L *lua.LState) int {
	return runCommand(L, "new", (*ShellController).newBoard)
}

func Setup(L *lua.LState) int {
	return runCommand(L, "setup "+L.ToString(1), (*ShellController).setup)
}

func Show(L *lua.LState) int {
	L.Push(lua.LString(getShell(L).board.ToDisplayText()))
	return 1
}

func Play(L *lua.LState) int {
	return runCommand(L, "play "+L.ToString(1), (*ShellController).play)
}

func Undo(L *lua.LState) int {
	return runCommand(L, "undo", (*ShellController).undo)
}

func Survey(L *lua.LState) int {
	return runCommand(L, "survey "+L.ToString(1), (*ShellController).surveySync)
}

func coordString(c board.Coord) string {
	return strings.Trim(c.String(), "()")
}

func Moves(L *lua.LState) int {
	sc := getShell(L)
	tbl := L.NewTable()
	for _, m := range sc.board.LegalMoves() {
		tbl.Append(lua.LString(coordString(m)))
	}
	L.Push(tbl)
	return 1
}

func Solve(L *lua.LState) int {
	sc := getShell(L)
	s := sc.newSolver()
	m, ok := s.WinningMove()
	if ok {
		L.Push(lua.LString(coordString(m)))
	} else {
		L.Push(lua.LNil)
	}
	L.Push(lua.LString(solveText(sc.board.Turn(), m, ok)))
	return 2
}

func Score(L *lua.LState) int {
	sc := getShell(L)
	s := sc.newSolver()
	m, ok, score := s.BestMoveByCardsRemaining()
	if ok {
		L.Push(lua.LString(coordString(m)))
	} else {
		L.Push(lua.LNil)
	}
	L.Push(lua.LNumber(score))
	L.Push(lua.LString(scoreText(sc.board.Turn(), m, ok, score)))
	return 3
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("torus_shell", lsc)
	L.SetGlobal("torus_new", L.NewFunction(New))
	L.SetGlobal("torus_setup", L.NewFunction(Setup))
	L.SetGlobal("torus_show", L.NewFunction(Show))
	L.SetGlobal("torus_moves", L.NewFunction(Moves))
	L.SetGlobal("torus_play", L.NewFunction(Play))
	L.SetGlobal("torus_undo", L.NewFunction(Undo))
	L.SetGlobal("torus_solve", L.NewFunction(Solve))
	L.SetGlobal("torus_score", L.NewFunction(Score))
	L.SetGlobal("torus_survey", L.NewFunction(Survey))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg(""), nil
}
