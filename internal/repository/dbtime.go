package repository

import (
	"fmt"
	"time"
)

// dbTimeLayout is the fixed-width UTC layout written for start_date and
// end_date.  Fixed width keeps lexical order equal to time order on SQLite
// and is accepted as a literal by MySQL DATETIME(6) and PostgreSQL TIMESTAMP.
const dbTimeLayout = "2006-01-02 15:04:05.000000"

// readLayouts lists the textual forms drivers hand back for timestamp
// columns.
var readLayouts = []string{
	dbTimeLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

// toDBTime normalises t to UTC microseconds in dbTimeLayout.
func toDBTime(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(dbTimeLayout)
}

// dbTime scans a timestamp column regardless of whether the driver returns
// time.Time (MySQL with parseTime, PostgreSQL) or text (SQLite).
type dbTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		return fmt.Errorf("dbtime: unexpected NULL")
	}
	return fmt.Errorf("dbtime: cannot scan %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range readLayouts {
		if p, err := time.Parse(layout, s); err == nil {
			t.Time = p.UTC()
			return nil
		}
	}
	return fmt.Errorf("dbtime: unrecognised timestamp %q", s)
}
