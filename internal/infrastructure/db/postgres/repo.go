package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/groupware-kr/calendar-service/internal/domain"
	"github.com/groupware-kr/calendar-service/internal/metrics"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ListAll returns rows ordered start_time ASC, id ASC. A nil from/to
// leaves that side of the window open. Rows with unparseable timestamps
// are kept with a midnight fallback rather than failing the listing.
func (r *Repo) ListAll(ctx context.Context, from, to *time.Time) ([]domain.CalendarEvent, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if from != nil {
		where = append(where, fmt.Sprintf("start_time >= $%d", argN))
		args = append(args, *from)
		argN++
	}
	if to != nil {
		where = append(where, fmt.Sprintf("start_time <= $%d", argN))
		args = append(args, *to)
		argN++
	}

	q := `
SELECT id, title, description, start_time, end_time, location, type, user_id, created_at, updated_at
FROM calendar_events
`
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY start_time ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, getEventSQL, id)
	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("event not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repo) Insert(ctx context.Context, e *domain.CalendarEvent) error {
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.Title, nullable(e.Description), e.StartTime, e.EndTime,
		nullable(e.Location), string(e.Type), nullable(e.OwnerID),
		e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *Repo) Update(ctx context.Context, e *domain.CalendarEvent) error {
	res, err := r.db.ExecContext(ctx, updateEventSQL,
		e.ID, e.Title, nullable(e.Description), e.StartTime, e.EndTime,
		nullable(e.Location), string(e.Type), e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound("event not found")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteEventSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound("event not found")
	}
	return nil
}

// scanEvent maps one row. start_time/end_time are scanned as text and
// parsed leniently: timestamptz comes through as RFC3339Nano, and a
// malformed value degrades to the zero time with a diagnostic instead of
// aborting the whole result set.
func scanEvent(scan func(...any) error) (*domain.CalendarEvent, error) {
	var (
		e                     domain.CalendarEvent
		description, location sql.NullString
		userID                sql.NullString
		startRaw, endRaw      string
		typ                   string
	)
	if err := scan(
		&e.ID, &e.Title, &description, &startRaw, &endRaw,
		&location, &typ, &userID, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Description = description.String
	e.Location = location.String
	e.OwnerID = userID.String
	e.Type = domain.NormalizeType(typ)

	var ok bool
	if e.StartTime, ok = domain.ParseTimestampLenient(startRaw); !ok {
		metrics.RecordMalformedRow()
		zlog.Warn().Str("event_id", e.ID).Str("start_time", startRaw).Msg("malformed start_time, using fallback")
	}
	if e.EndTime, ok = domain.ParseTimestampLenient(endRaw); !ok {
		metrics.RecordMalformedRow()
		zlog.Warn().Str("event_id", e.ID).Str("end_time", endRaw).Msg("malformed end_time, using fallback")
		e.EndTime = e.StartTime
	}
	return &e, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
