package value

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Append writes the print form of v to buf
func Append(buf []byte, v Value) []byte {
	switch v.kind {
	case KindInt:
		return strconv.AppendInt(buf, v.AsInt(), 10)
	case KindBool:
		return strconv.AppendBool(buf, v.AsBool())
	case KindFloat:
		f := v.AsFloat()
		switch {
		case math.IsInf(f, 1):
			return append(buf, "Infinity"...)
		case math.IsInf(f, -1):
			return append(buf, "-Infinity"...)
		case math.IsNaN(f):
			return append(buf, "NaN"...)
		}
		return strconv.AppendFloat(buf, f, 'f', 17, 64)
	case KindChar:
		return utf8.AppendRune(buf, v.AsChar())
	case KindPtr:
		if v.ptr == nil {
			return append(buf, "<nil pointer>"...)
		}
		return append(buf, v.ptr.String()...)
	default:
		return append(buf, "<uninitialized>"...)
	}
}

// Format returns the print form of v
func Format(v Value) string {
	return string(Append(nil, v))
}

func (v Value) String() string {
	return Format(v)
}

// AppendLine writes vals space-separated with a trailing newline, the way the
// print instruction does
func AppendLine(buf []byte, vals ...Value) []byte {
	for i, v := range vals {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = Append(buf, v)
	}
	return append(buf, '\n')
}
