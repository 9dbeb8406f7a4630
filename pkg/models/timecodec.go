package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Duration is a time.Duration persisted as {"secs": N, "nanos": N}, the same
// shape older store files use.
type Duration time.Duration

type durationJSON struct {
	Secs  int64 `json:"secs"`
	Nanos int64 `json:"nanos"`
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	td := time.Duration(d)
	secs := int64(td / time.Second)
	return json.Marshal(durationJSON{
		Secs:  secs,
		Nanos: int64(td - time.Duration(secs)*time.Second),
	})
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v durationJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.WithStack(err)
	}
	if v.Secs < 0 || v.Nanos < 0 || v.Nanos >= int64(time.Second) {
		return errors.Errorf("invalid duration {secs: %d, nanos: %d}", v.Secs, v.Nanos)
	}
	*d = Duration(time.Duration(v.Secs)*time.Second + time.Duration(v.Nanos))
	return nil
}

// Timestamp is a point in time persisted as seconds and nanoseconds since the
// Unix epoch.
type Timestamp struct {
	time.Time
}

type timestampJSON struct {
	SecsSinceEpoch  int64 `json:"secs_since_epoch"`
	NanosSinceEpoch int64 `json:"nanos_since_epoch"`
}

// NewTimestamp returns a Timestamp for t, or nil if t is the zero time.
func NewTimestamp(t time.Time) *Timestamp {
	if t.IsZero() {
		return nil
	}
	return &Timestamp{t.UTC()}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(timestampJSON{
		SecsSinceEpoch:  ts.Unix(),
		NanosSinceEpoch: int64(ts.Nanosecond()),
	})
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var v timestampJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.WithStack(err)
	}
	if v.NanosSinceEpoch < 0 || v.NanosSinceEpoch >= int64(time.Second) {
		return errors.Errorf("invalid timestamp nanos %d", v.NanosSinceEpoch)
	}
	ts.Time = time.Unix(v.SecsSinceEpoch, v.NanosSinceEpoch).UTC()
	return nil
}

// Date is a calendar day.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}
