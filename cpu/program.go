package cpu

import (
	"io"
	"slices"
	"strconv"
	"strings"
)

// PROGRAM_SEPARATOR separates the integers of a program text.
const PROGRAM_SEPARATOR = ","

// Program is an initial memory image.
type Program []int64

// ParseProgram reads a comma separated program text.
func ParseProgram(r io.Reader) (prog Program, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	prog, err = ParseProgramString(string(data), PROGRAM_SEPARATOR)
	return
}

// ParseProgramString splits text on sep and parses each token as an integer.
// Whitespace around tokens and a single trailing separator are ignored.
func ParseProgramString(text string, sep string) (prog Program, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrProgramEmpty
		return
	}

	tokens := strings.Split(text, sep)
	if len(tokens) > 1 && strings.TrimSpace(tokens[len(tokens)-1]) == "" {
		tokens = tokens[:len(tokens)-1]
	}

	prog = make(Program, 0, len(tokens))
	for n, token := range tokens {
		token = strings.TrimSpace(token)
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			err = ErrToken{Index: n, Token: token, Err: ErrParseNumber(token)}
			prog = nil
			return
		}
		prog = append(prog, value)
	}

	return
}

// Format renders the program with a separator between values.
func (prog Program) Format(sep string) string {
	tokens := make([]string, len(prog))
	for n, value := range prog {
		tokens[n] = strconv.FormatInt(value, 10)
	}
	return strings.Join(tokens, sep)
}

func (prog Program) String() string {
	return prog.Format(PROGRAM_SEPARATOR)
}

// Memory returns a private memory image of the program.
func (prog Program) Memory() []int64 {
	return slices.Clone(prog)
}
