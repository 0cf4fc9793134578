package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

// Planner fields

func RunID(id string) Field {
	return String("run_id", id)
}

func Node(id string) Field {
	return String("node", id)
}

func Budget(minutes int) Field {
	return Int("budget", minutes)
}

func Agents(starts []string) Field {
	return Any("agents", starts)
}

func Score(score int) Field {
	return Int("score", score)
}

func Strategy(name string) Field {
	return String("strategy", name)
}

func File(path string) Field {
	return String("file", path)
}
