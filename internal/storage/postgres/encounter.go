package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/realm/internal/game/encounter"
)

// ErrEncounterNotFound is returned when an encounter lookup yields no results.
var ErrEncounterNotFound = errors.New("encounter not found")

// ErrEncounterExists is returned when an encounter id is saved twice.
var ErrEncounterExists = errors.New("encounter already exists")

// defaultListLimit caps ListByPlayer when the caller passes limit <= 0.
const defaultListLimit = 50

const encounterColumns = `id::text, player_name, enemy_name, difficulty, outcome, rounds,
	xp_gained, gold_gained, summary, created_at`

// EncounterRepository stores finished encounters. It implements encounter.Saver.
type EncounterRepository struct {
	db *pgxpool.Pool
}

var _ encounter.Saver = (*EncounterRepository)(nil)

// NewEncounterRepository creates an EncounterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterRepository(db *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{db: db}
}

// Save inserts rec. An empty ID is replaced with a new UUID and a zero
// CreatedAt takes the database clock.
//
// Precondition: rec.ID, when set, must be a UUID.
// Postcondition: Returns the stored record with ID and CreatedAt set, or
// ErrEncounterExists if the id is already stored.
func (r *EncounterRepository) Save(ctx context.Context, rec encounter.Record) (encounter.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		return encounter.Record{}, fmt.Errorf("encounter id %q: %w", rec.ID, err)
	}

	var createdAt any
	if !rec.CreatedAt.IsZero() {
		createdAt = rec.CreatedAt
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO encounters (id, player_name, enemy_name, difficulty, outcome, rounds,
		                         xp_gained, gold_gained, summary, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10::timestamptz, NOW()))
		 RETURNING created_at`,
		rec.ID, rec.PlayerName, rec.EnemyName, rec.Difficulty, rec.Outcome.String(), rec.Rounds,
		rec.XPGained, rec.GoldGained, rec.Summary, createdAt,
	).Scan(&rec.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return encounter.Record{}, ErrEncounterExists
		}
		return encounter.Record{}, fmt.Errorf("inserting encounter: %w", err)
	}
	return rec, nil
}

// SaveEncounter stores rec, discarding the stored copy.
func (r *EncounterRepository) SaveEncounter(ctx context.Context, rec encounter.Record) error {
	_, err := r.Save(ctx, rec)
	return err
}

// Get retrieves an encounter by id.
//
// Postcondition: Returns ErrEncounterNotFound when no row matches.
func (r *EncounterRepository) Get(ctx context.Context, id string) (encounter.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return encounter.Record{}, fmt.Errorf("%w: %q", ErrEncounterNotFound, id)
	}
	row := r.db.QueryRow(ctx,
		`SELECT `+encounterColumns+` FROM encounters WHERE id = $1::uuid`, id)
	rec, err := scanEncounter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return encounter.Record{}, ErrEncounterNotFound
		}
		return encounter.Record{}, fmt.Errorf("querying encounter: %w", err)
	}
	return rec, nil
}

// ListByPlayer returns the player's most recent encounters, newest first.
// limit <= 0 uses defaultListLimit.
func (r *EncounterRepository) ListByPlayer(ctx context.Context, playerName string, limit int) ([]encounter.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+encounterColumns+` FROM encounters
		 WHERE player_name = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		playerName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	defer rows.Close()

	var out []encounter.Record
	for rows.Next() {
		rec, err := scanEncounter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning encounter: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	return out, nil
}

func scanEncounter(row pgx.Row) (encounter.Record, error) {
	var (
		rec     encounter.Record
		outcome string
	)
	if err := row.Scan(&rec.ID, &rec.PlayerName, &rec.EnemyName, &rec.Difficulty, &outcome,
		&rec.Rounds, &rec.XPGained, &rec.GoldGained, &rec.Summary, &rec.CreatedAt); err != nil {
		return encounter.Record{}, err
	}
	o, ok := encounter.ParseOutcome(outcome)
	if !ok {
		return encounter.Record{}, fmt.Errorf("encounter %s: unknown outcome %q", rec.ID, outcome)
	}
	rec.Outcome = o
	return rec, nil
}

func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
