package sensor

import "time"

// Sample is one timestamped reading from the environmental sensors.
// Fields holds the row's values keyed by column name, excluding time.
// Declared numeric fields are coerced to *float64 by the reader; a nil
// pointer is the explicit null marker for a present-but-unparsable
// value. Everything else keeps the type the store returned.
type Sample struct {
	Time   time.Time
	Fields map[string]interface{}
}
