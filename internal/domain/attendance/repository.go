package attendance

import (
	"context"
	"time"
)

// Repository is the per-person per-date attendance ledger. It is
// implemented twice against the same contract, once for employees and
// once for students.
type Repository interface {
	// Toggle advances the tri-state cycle for (personID, date) in a
	// single atomic statement, creating the record on first touch so
	// the first call on a fresh date always lands on present.
	Toggle(ctx context.Context, personID string, date time.Time) (Record, error)

	// Seed ensures an absent record exists for every date in
	// [from, to]; existing records are left alone.
	Seed(ctx context.Context, personID string, from, to time.Time) error

	// CountPresent counts present records for personID with date in
	// [from, to] inclusive.
	CountPresent(ctx context.Context, personID string, from, to time.Time) (int, error)

	// ListRange returns all records for personID within [from, to].
	ListRange(ctx context.Context, personID string, from, to time.Time) ([]Record, error)

	// ListAllRange returns every record within [from, to] regardless
	// of person, for the period calendar screen.
	ListAllRange(ctx context.Context, from, to time.Time) ([]Record, error)

	DeleteByPerson(ctx context.Context, personID string) error
}
