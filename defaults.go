package protoskema

import (
	"math/big"
	"time"

	"github.com/ericlagergren/decimal"
)

// DefaultValue resolves the type default of a schema from the schema alone:
// numeric zero, false, empty string/bytes/sequence, absent optional, and
// records populated recursively. Enumerations have no default (an absent
// enumeration is a decode error), and Fail schemas default to their failure.
func DefaultValue(s Schema) (any, error) {
	return defaultValue(s, "")
}

func defaultValue(s Schema, path string) (any, error) {
	switch n := s.(type) {
	case *Primitive:
		return defaultPrimitive(n.Type), nil
	case *Sequence:
		return []any{}, nil
	case *Record:
		m := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			v, err := defaultValue(f.Schema, path+"/"+f.Name)
			if err != nil {
				return nil, err
			}
			m[f.Name] = v
		}
		return m, nil
	case *Tuple:
		l, err := defaultValue(n.Left, path+"/_1")
		if err != nil {
			return nil, err
		}
		r, err := defaultValue(n.Right, path+"/_2")
		if err != nil {
			return nil, err
		}
		return Pair{First: l, Second: r}, nil
	case *Optional:
		return nil, nil
	case *Enumeration:
		return nil, issuef(path, CodeMissingEnumCase, -1, "missing enumeration case")
	case *Transform:
		inner, err := defaultValue(n.Inner, path)
		if err != nil {
			return nil, err
		}
		v, err := n.Forward(inner)
		if err != nil {
			return nil, Issues{{Path: path, Code: CodeTransformFailed, Message: err.Error(), Cause: err, Offset: -1}}
		}
		return v, nil
	case *Fail:
		return nil, issuef(path, CodeSchemaFail, -1, "%s", n.Message)
	}
	return nil, issuef(path, CodeInvalidType, -1, "unsupported schema node %T", s)
}

func defaultPrimitive(t StandardType) any {
	switch t.Kind {
	case KindUnit:
		return Unit{}
	case KindBool:
		return false
	case KindByte:
		return int8(0)
	case KindShort:
		return int16(0)
	case KindInt:
		return int32(0)
	case KindLong:
		return int64(0)
	case KindFloat:
		return float32(0)
	case KindDouble:
		return float64(0)
	case KindChar:
		return rune(0)
	case KindString:
		return ""
	case KindBytes:
		return []byte{}
	case KindBigInteger:
		return new(big.Int)
	case KindBigDecimal:
		return new(decimal.Big)
	case KindDayOfWeek:
		return time.Monday
	case KindMonth:
		return time.January
	case KindMonthDay:
		return MonthDay{Month: 1, Day: 1}
	case KindPeriod:
		return Period{}
	case KindYear:
		return 0
	case KindYearMonth:
		return YearMonth{Year: 0, Month: 1}
	case KindZoneID:
		return "UTC"
	case KindZoneOffset:
		return 0
	case KindDuration:
		return time.Duration(0)
	default:
		// every remaining kind is a formatted point in time
		return time.Time{}
	}
}
