package dsl

import (
	"time"

	protoskema "github.com/reoring/protoskema"
)

func primitive(k protoskema.TypeKind) protoskema.Schema {
	return &protoskema.Primitive{Type: protoskema.StandardType{Kind: k}}
}

func temporal(k protoskema.TypeKind, layout string) protoskema.Schema {
	return &protoskema.Primitive{Type: protoskema.StandardType{Kind: k, Layout: layout}}
}

// Unit returns the schema of the zero-byte unit type.
func Unit() protoskema.Schema { return primitive(protoskema.KindUnit) }

// Bool returns the boolean schema.
func Bool() protoskema.Schema { return primitive(protoskema.KindBool) }

// Byte returns the signed 8-bit integer schema.
func Byte() protoskema.Schema { return primitive(protoskema.KindByte) }

// Short returns the signed 16-bit integer schema.
func Short() protoskema.Schema { return primitive(protoskema.KindShort) }

// Int returns the signed 32-bit integer schema.
func Int() protoskema.Schema { return primitive(protoskema.KindInt) }

// Long returns the signed 64-bit integer schema.
func Long() protoskema.Schema { return primitive(protoskema.KindLong) }

// Float returns the 32-bit IEEE 754 schema (wire type 5).
func Float() protoskema.Schema { return primitive(protoskema.KindFloat) }

// Double returns the 64-bit IEEE 754 schema (wire type 1).
func Double() protoskema.Schema { return primitive(protoskema.KindDouble) }

// Char returns the schema of a single code point.
func Char() protoskema.Schema { return primitive(protoskema.KindChar) }

// String returns the UTF-8 string schema.
func String() protoskema.Schema { return primitive(protoskema.KindString) }

// Bytes returns the raw byte-string schema.
func Bytes() protoskema.Schema { return primitive(protoskema.KindBytes) }

// BigInteger returns the arbitrary-precision integer schema. The wire form
// is the canonical decimal text.
func BigInteger() protoskema.Schema { return primitive(protoskema.KindBigInteger) }

// BigDecimal returns the arbitrary-precision decimal schema. The wire form
// is the canonical decimal text.
func BigDecimal() protoskema.Schema { return primitive(protoskema.KindBigDecimal) }

// DayOfWeek returns the ISO day-of-week schema (Monday=1 .. Sunday=7).
func DayOfWeek() protoskema.Schema { return primitive(protoskema.KindDayOfWeek) }

// Month returns the calendar month schema.
func Month() protoskema.Schema { return primitive(protoskema.KindMonth) }

// MonthDay returns the month/day pair schema.
func MonthDay() protoskema.Schema { return primitive(protoskema.KindMonthDay) }

// Period returns the years/months/days calendar distance schema.
func Period() protoskema.Schema { return primitive(protoskema.KindPeriod) }

// Year returns the calendar year schema.
func Year() protoskema.Schema { return primitive(protoskema.KindYear) }

// YearMonth returns the year/month pair schema.
func YearMonth() protoskema.Schema { return primitive(protoskema.KindYearMonth) }

// ZoneID returns the textual time-zone identifier schema.
func ZoneID() protoskema.Schema { return primitive(protoskema.KindZoneID) }

// ZoneOffset returns the fixed zone offset schema, carried as total seconds.
func ZoneOffset() protoskema.Schema { return primitive(protoskema.KindZoneOffset) }

// Duration returns the duration schema. The unit records the resolution the
// schema was declared with; the wire form is always a seconds/nanos pair.
func Duration(unit time.Duration) protoskema.Schema {
	return &protoskema.Primitive{Type: protoskema.StandardType{Kind: protoskema.KindDuration, Unit: unit}}
}

// Instant returns the point-in-time schema using the given textual layout.
// An empty layout selects RFC 3339 with nanoseconds.
func Instant(layout string) protoskema.Schema {
	return temporal(protoskema.KindInstant, layout)
}

// LocalDate returns the calendar date schema using the given layout.
func LocalDate(layout string) protoskema.Schema {
	return temporal(protoskema.KindLocalDate, layout)
}

// LocalTime returns the wall-clock time schema using the given layout.
func LocalTime(layout string) protoskema.Schema {
	return temporal(protoskema.KindLocalTime, layout)
}

// LocalDateTime returns the date-time schema using the given layout.
func LocalDateTime(layout string) protoskema.Schema {
	return temporal(protoskema.KindLocalDateTime, layout)
}

// OffsetTime returns the time-with-offset schema using the given layout.
func OffsetTime(layout string) protoskema.Schema {
	return temporal(protoskema.KindOffsetTime, layout)
}

// OffsetDateTime returns the date-time-with-offset schema using the given
// layout.
func OffsetDateTime(layout string) protoskema.Schema {
	return temporal(protoskema.KindOffsetDateTime, layout)
}

// ZonedDateTime returns the zoned date-time schema using the given layout.
func ZonedDateTime(layout string) protoskema.Schema {
	return temporal(protoskema.KindZonedDateTime, layout)
}
