package value

import (
	"time"

	"github.com/golang/protobuf/ptypes/duration"
	"github.com/golang/protobuf/ptypes/timestamp"
)

// FromWellKnown coerces a handful of common Go adapter-property shapes into
// the Value model: a duration becomes its second count, a timestamp
// becomes an RFC3339 string. An adapter holding one of these shapes calls
// this at the boundary of its property resolver, so the query language
// never needs to know about time.Duration or time.Time directly — the
// value kinds are a closed set.
func FromWellKnown(v interface{}) (Value, bool) {
	switch t := v.(type) {
	case *duration.Duration:
		return Int(t.GetSeconds()), true
	case duration.Duration:
		return Int(t.GetSeconds()), true
	case time.Duration:
		return Int(int64(t.Seconds())), true
	case *timestamp.Timestamp:
		return String(time.Unix(t.GetSeconds(), int64(t.GetNanos())).UTC().Format(time.RFC3339)), true
	case timestamp.Timestamp:
		return String(time.Unix(t.GetSeconds(), int64(t.GetNanos())).UTC().Format(time.RFC3339)), true
	case time.Time:
		return String(t.UTC().Format(time.RFC3339)), true
	default:
		return Null, false
	}
}
