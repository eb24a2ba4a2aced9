package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/domain"
)

// Alert describes a backend changing between reachable and unreachable.
type Alert struct {
	Backend domain.Backend
	Result  domain.ProbeResult
}

func (a Alert) Title() string {
	if a.Result.Success {
		return fmt.Sprintf("🟢 %s RECOVERED", a.Backend)
	}
	return fmt.Sprintf("🔴 %s DOWN", a.Backend)
}

func (a Alert) Text() string {
	detail := "ok"
	if !a.Result.Success {
		detail = a.Result.Error
	}
	return fmt.Sprintf("Backend: %s\nDetail: %s\nChecked: %s",
		a.Backend, detail, a.Result.Timestamp.Format(time.RFC3339))
}

type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(_ context.Context, a Alert) error {
	fields := []zap.Field{
		zap.String("backend", string(a.Backend)),
		zap.Bool("up", a.Result.Success),
		zap.Time("checked_at", a.Result.Timestamp),
	}
	if a.Result.Success {
		l.Logger.Info("backend_recovered", fields...)
	} else {
		l.Logger.Warn("backend_down", append(fields, zap.String("error", a.Result.Error))...)
	}
	return nil
}
