package shell

import (
	"errors"
	"strings"

	"github.com/kballard/go-shellquote"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a command line into the command, its positional
// arguments, and its -option value pairs. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}
