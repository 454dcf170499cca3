package logging

import "time"

// Common field constructors.
func String(key, value string) Field  { return Field{Key: key, Value: value} }
func Int(key string, value int) Field { return Field{Key: key, Value: value} }
func Uint16(key string, value uint16) Field { return Field{Key: key, Value: value} }
func Uint32(key string, value uint32) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field     { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// Component field helpers for this domain's common field names.
func Component(name string) Field { return String("component", name) }

func NodeID(id interface{ String() string }) Field {
	return String("node_id", id.String())
}

func NodeClass(class interface{ String() string }) Field {
	return String("node_class", class.String())
}

func Operation(op string) Field { return String("operation", op) }

func Latency(d time.Duration) Field { return Duration("latency", d) }

func Count(n int) Field { return Int("count", n) }
