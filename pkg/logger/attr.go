package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the acting or affected user.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Role records an account role.
func Role(role any) slog.Attr {
	return slog.Any("role", role)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func BloodRequestID(id any) slog.Attr {
	return slog.Any("blood_request_id", id)
}

func BloodType(bt any) slog.Attr {
	return slog.Any("blood_type", bt)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Task records a background task name.
func Task(name string) slog.Attr {
	return slog.String("task", name)
}
