package postgres

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgtype"
)

// DATE columns travel as pgtype.Date so NULL maps cleanly to a nil *civil.Date.

func dateArg(d civil.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Valid: true}
}

func nullableDateArg(d *civil.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return dateArg(*d)
}

func civilDate(d pgtype.Date) *civil.Date {
	if !d.Valid {
		return nil
	}
	v := civil.DateOf(d.Time)
	return &v
}
