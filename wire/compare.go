package wire

import (
	"bytes"
	"math"
	"strings"

	"github.com/arloliu/bsonmut/format"
)

// Compare performs a three-way comparison between two complete encoded
// elements. Types are ordered by canonical rank; equal ranks compare by
// value, with the three numeric types compared numerically across tags.
// When considerFieldName is true, field names order elements of equal rank
// before their values do. Children of arrays are always compared without
// field names.
func Compare(a, b []byte, considerFieldName bool) int {
	ra, rb := NewReader(a), NewReader(b)
	ta, tb := ra.TypeAt(0), rb.TypeAt(0)

	if diff := ta.CanonicalRank() - tb.CanonicalRank(); diff != 0 {
		return sign(diff)
	}

	if considerFieldName {
		if diff := strings.Compare(ra.NameAt(0), rb.NameAt(0)); diff != 0 {
			return diff
		}
	}

	considerChildFieldNames := ta != format.TypeArray && tb != format.TypeArray

	return compareValues(ra, rb, ta, tb, considerChildFieldNames)
}

// CompareDocuments performs a three-way comparison between two complete
// encoded documents by walking their elements pairwise. A document that is a
// strict prefix of the other sorts first.
func CompareDocuments(a, b []byte, considerFieldName bool) int {
	ra, rb := NewReader(a), NewReader(b)
	offA, okA := ra.DocFirstElement(0)
	offB, okB := rb.DocFirstElement(0)

	for {
		if !okA {
			if !okB {
				return 0
			}

			return -1
		}
		if !okB {
			return 1
		}

		if diff := Compare(ra.ElementAt(offA), rb.ElementAt(offB), considerFieldName); diff != 0 {
			return diff
		}

		offA, okA = ra.NextAt(offA)
		offB, okB = rb.NextAt(offB)
	}
}

func compareValues(ra, rb Reader, ta, tb format.Type, considerChildFieldNames bool) int {
	if ta.Numeric() && tb.Numeric() {
		return compareNumeric(ra, rb, ta, tb)
	}

	va, vb := ra.ValueAt(0), rb.ValueAt(0)

	switch ta {
	case format.TypeString, format.TypeSymbol, format.TypeCode:
		// Compare the string bytes without the length prefix or NUL.
		return bytes.Compare(va[4:len(va)-1], vb[4:len(vb)-1])
	case format.TypeObject, format.TypeArray:
		return CompareDocuments(va, vb, considerChildFieldNames)
	case format.TypeBinary:
		if diff := len(va) - len(vb); diff != 0 {
			return sign(diff)
		}

		// Subtype byte and payload together.
		return bytes.Compare(va[4:], vb[4:])
	case format.TypeBool:
		return int(va[0]) - int(vb[0])
	case format.TypeDateTime, format.TypeInt64:
		return compareInt64(int64(ra.engine.Uint64(va)), int64(rb.engine.Uint64(vb)))
	case format.TypeTimestamp:
		ua, ub := ra.engine.Uint64(va), rb.engine.Uint64(vb)
		switch {
		case ua < ub:
			return -1
		case ua > ub:
			return 1
		default:
			return 0
		}
	case format.TypeObjectID:
		return bytes.Compare(va, vb)
	case format.TypeRegex:
		pa, fa := splitRegex(va)
		pb, fb := splitRegex(vb)
		if diff := strings.Compare(pa, pb); diff != 0 {
			return diff
		}

		return strings.Compare(fa, fb)
	case format.TypeDBPointer:
		if diff := bytes.Compare(va[4:len(va)-12], vb[4:len(vb)-12]); diff != 0 {
			return diff
		}

		return bytes.Compare(va[len(va)-12:], vb[len(vb)-12:])
	case format.TypeCodeWScope:
		// Treated as an opaque leaf: bytewise value comparison.
		return bytes.Compare(va, vb)
	default:
		// Null, Undefined, MinKey, MaxKey carry no value.
		return 0
	}
}

func compareNumeric(ra, rb Reader, ta, tb format.Type) int {
	if ta.Integral() && tb.Integral() {
		return compareInt64(intValue(ra, ta), intValue(rb, tb))
	}

	fa, fb := floatValue(ra, ta), floatValue(rb, tb)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	case fa == fb:
		return 0
	case math.IsNaN(fa) && math.IsNaN(fb):
		return 0
	case math.IsNaN(fa):
		return -1
	default:
		return 1
	}
}

func intValue(r Reader, t format.Type) int64 {
	v := r.ValueAt(0)
	if t == format.TypeInt32 {
		return int64(int32(r.engine.Uint32(v)))
	}

	return int64(r.engine.Uint64(v))
}

func floatValue(r Reader, t format.Type) float64 {
	if t == format.TypeDouble {
		return math.Float64frombits(r.engine.Uint64(r.ValueAt(0)))
	}

	return float64(intValue(r, t))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func splitRegex(v []byte) (pattern, options string) {
	i := bytes.IndexByte(v, 0)
	pattern = string(v[:i])
	rest := v[i+1:]
	options = string(rest[:bytes.IndexByte(rest, 0)])

	return pattern, options
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
