package probe

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/connprobe/internal/domain"
)

// DiagnosticMessage is the literal echoed back by the relational diagnostic query.
const DiagnosticMessage = "Hello from Neon!"

const diagnosticQuery = `SELECT NOW() AS current_time, 'Hello from Neon!' AS message`

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgxmock.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SQLChecker struct {
	DB  Querier
	Now func() time.Time
}

func NewSQLChecker(db Querier) *SQLChecker {
	return &SQLChecker{DB: db}
}

func (c *SQLChecker) Check(ctx context.Context) domain.ProbeResult {
	if c.DB == nil {
		return domain.Failed(errors.New("relational store not configured"), nowOr(c.Now))
	}

	var (
		serverTime time.Time
		message    string
	)
	if err := c.DB.QueryRow(ctx, diagnosticQuery).Scan(&serverTime, &message); err != nil {
		return domain.Failed(err, nowOr(c.Now))
	}
	return domain.Succeeded(map[string]any{
		"current_time": serverTime,
		"message":      message,
	}, nowOr(c.Now))
}
