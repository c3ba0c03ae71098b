package interp

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/GriffinCanCode/brilgo/pkg/bb"
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// controlEscapes maps the escape sequences accepted for char arguments
var controlEscapes = map[string]rune{
	`\0`: 0,
	`\a`: 7,
	`\b`: 8,
	`\t`: '\t',
	`\n`: '\n',
	`\v`: '\v',
	`\f`: '\f',
	`\r`: '\r',
}

// ParseArgs converts command-line text into values typed by fn's parameters
func ParseArgs(fn *bb.Function, args []string) ([]value.Value, error) {
	if len(args) != len(fn.Args) {
		return nil, diag.ArgCount(len(fn.Args), len(args))
	}
	vals := make([]value.Value, len(args))
	for i, a := range fn.Args {
		v, err := parseArg(a.Type, args[i])
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func parseArg(t ir.Type, s string) (value.Value, error) {
	switch t.Kind {
	case ir.TypeBool:
		// only the exact spellings; strconv.ParseBool would also take "1" or "T"
		switch s {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		}
	case ir.TypeInt:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i), nil
		}
	case ir.TypeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float(f), nil
		}
	case ir.TypeChar:
		return parseChar(s)
	}
	return value.Value{}, diag.ArgType(t, s)
}

// parseChar accepts one character after NFC normalisation, or one of the
// control escapes
func parseChar(s string) (value.Value, error) {
	if r, ok := controlEscapes[s]; ok {
		return value.Char(r), nil
	}
	s = norm.NFC.String(s)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
		return value.Value{}, diag.New(diag.NotOneChar, "expected exactly one character, found `%s`", s)
	}
	return value.Char(r), nil
}
