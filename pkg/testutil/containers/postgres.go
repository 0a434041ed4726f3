//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers Postgres instance with the warden
// schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("warden"),
		tcpostgres.WithUsername("warden"),
		tcpostgres.WithPassword("warden"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// Truncate empties every warden table. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE inmates, record_movements, court_appearances,
			photos, finger_prints, inmate_visits,
			prisons, officers, courts, offenses, audit_events
	`)
	return err
}

// Dates and times of day are stored as ISO-8601 text, matching the wire
// format; lexical order equals chronological order so range queries work.
const schema = `
CREATE TABLE prisons (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	code          TEXT NOT NULL,
	type          TEXT NOT NULL,
	region        TEXT NOT NULL DEFAULT '',
	district      TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	capacity      INTEGER NOT NULL DEFAULT 0,
	contact_phone TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX prisons_code_key ON prisons (lower(code));

CREATE TABLE officers (
	id           UUID PRIMARY KEY,
	prison_id    UUID NOT NULL,
	name         TEXT NOT NULL,
	badge_number TEXT NOT NULL,
	rank         TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	is_active    BOOLEAN NOT NULL DEFAULT TRUE,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX officers_badge_key ON officers (lower(badge_number));

CREATE TABLE courts (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT '',
	district   TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE offenses (
	id                 UUID PRIMARY KEY,
	name               TEXT NOT NULL,
	act                TEXT NOT NULL DEFAULT '',
	section            TEXT NOT NULL DEFAULT '',
	chapter            TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL DEFAULT '',
	amended_by         TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	max_sentence_years INTEGER NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE inmates (
	id                       UUID PRIMARY KEY,
	first_name               TEXT NOT NULL,
	last_name                TEXT NOT NULL,
	other_names              TEXT NOT NULL DEFAULT '',
	prison_number            TEXT NOT NULL,
	national_id              TEXT NOT NULL DEFAULT '',
	dob                      TEXT NOT NULL DEFAULT '',
	gender                   TEXT NOT NULL,
	nationality              TEXT NOT NULL DEFAULT '',
	tribe                    TEXT NOT NULL DEFAULT '',
	religion                 TEXT NOT NULL DEFAULT '',
	education_level          TEXT NOT NULL DEFAULT '',
	marital_status           TEXT NOT NULL DEFAULT '',
	occupation               TEXT NOT NULL DEFAULT '',
	next_of_kin_name         TEXT NOT NULL DEFAULT '',
	next_of_kin_phone        TEXT NOT NULL DEFAULT '',
	next_of_kin_relationship TEXT NOT NULL DEFAULT '',
	inmate_type              TEXT NOT NULL,
	status                   TEXT NOT NULL,
	risk_level               TEXT NOT NULL DEFAULT '',
	prison_id                UUID NOT NULL,
	cell_block               TEXT NOT NULL DEFAULT '',
	cell_number              TEXT NOT NULL DEFAULT '',
	case_number              TEXT NOT NULL DEFAULT '',
	offense_id               UUID NOT NULL,
	arresting_station        TEXT NOT NULL DEFAULT '',
	admission_date           TEXT NOT NULL DEFAULT '',
	remand_expiry            TEXT NOT NULL DEFAULT '',
	next_court_date          TEXT NOT NULL DEFAULT '',
	conviction_date          TEXT NOT NULL DEFAULT '',
	sentence_start           TEXT NOT NULL DEFAULT '',
	sentence_end             TEXT NOT NULL DEFAULT '',
	sentence_duration        TEXT NOT NULL DEFAULT '',
	is_life_sentence         BOOLEAN NOT NULL DEFAULT FALSE,
	fine_amount              DOUBLE PRECISION NOT NULL DEFAULT 0,
	fine_paid                BOOLEAN NOT NULL DEFAULT FALSE,
	actual_release_date      TEXT NOT NULL DEFAULT '',
	release_reason           TEXT NOT NULL DEFAULT '',
	notes                    TEXT NOT NULL DEFAULT '',
	created_at               TIMESTAMPTZ NOT NULL,
	updated_at               TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX inmates_prison_number_key ON inmates (lower(prison_number));
CREATE INDEX inmates_prison_idx ON inmates (prison_id);
CREATE INDEX inmates_status_idx ON inmates (status);

CREATE TABLE record_movements (
	id             UUID PRIMARY KEY,
	inmate_id      UUID NOT NULL,
	movement_type  TEXT NOT NULL,
	from_prison_id UUID,
	to_prison_id   UUID,
	officer_id     UUID,
	destination    TEXT NOT NULL DEFAULT '',
	departure_date TEXT NOT NULL DEFAULT '',
	return_date    TEXT NOT NULL DEFAULT '',
	reason         TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX record_movements_inmate_idx ON record_movements (inmate_id);

CREATE TABLE court_appearances (
	id             UUID PRIMARY KEY,
	inmate_id      UUID NOT NULL,
	court_id       UUID NOT NULL,
	officer_id     UUID,
	scheduled_date TEXT NOT NULL,
	departure_time TEXT NOT NULL DEFAULT '',
	return_time    TEXT NOT NULL DEFAULT '',
	outcome        TEXT NOT NULL DEFAULT '',
	next_date      TEXT NOT NULL DEFAULT '',
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX court_appearances_inmate_idx ON court_appearances (inmate_id);
CREATE INDEX court_appearances_date_idx ON court_appearances (scheduled_date);

CREATE TABLE photos (
	id              UUID PRIMARY KEY,
	subject_type    TEXT NOT NULL,
	inmate_id       UUID,
	officer_id      UUID,
	photo_type      TEXT NOT NULL,
	provider        TEXT NOT NULL,
	storage_ref     TEXT NOT NULL DEFAULT '',
	external_url    TEXT NOT NULL DEFAULT '',
	base64_preview  TEXT NOT NULL DEFAULT '',
	file_size       BIGINT NOT NULL DEFAULT 0,
	mime_type       TEXT NOT NULL DEFAULT '',
	captured_at     TEXT NOT NULL,
	captured_by_id  UUID,
	is_primary      BOOLEAN NOT NULL DEFAULT FALSE,
	is_confirmed    BOOLEAN NOT NULL DEFAULT FALSE,
	confirmed_by_id UUID,
	confirmed_at    TEXT NOT NULL DEFAULT '',
	confirm_notes   TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX photos_inmate_idx ON photos (inmate_id) WHERE inmate_id IS NOT NULL;
CREATE INDEX photos_officer_idx ON photos (officer_id) WHERE officer_id IS NOT NULL;

CREATE TABLE finger_prints (
	id              UUID PRIMARY KEY,
	subject_type    TEXT NOT NULL,
	inmate_id       UUID,
	officer_id      UUID,
	finger          TEXT NOT NULL,
	provider        TEXT NOT NULL,
	storage_ref     TEXT NOT NULL DEFAULT '',
	template_data   TEXT NOT NULL DEFAULT '',
	provider_name   TEXT NOT NULL DEFAULT '',
	provider_ref    TEXT NOT NULL DEFAULT '',
	quality         INTEGER NOT NULL DEFAULT 0,
	captured_at     TEXT NOT NULL,
	captured_by_id  UUID,
	is_confirmed    BOOLEAN NOT NULL DEFAULT FALSE,
	confirmed_by_id UUID,
	confirmed_at    TEXT NOT NULL DEFAULT '',
	confirm_notes   TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX finger_prints_inmate_slot_key
	ON finger_prints (inmate_id, finger) WHERE inmate_id IS NOT NULL;
CREATE UNIQUE INDEX finger_prints_officer_slot_key
	ON finger_prints (officer_id, finger) WHERE officer_id IS NOT NULL;

CREATE TABLE inmate_visits (
	id                UUID PRIMARY KEY,
	inmate_id         UUID NOT NULL,
	prison_id         UUID NOT NULL,
	full_name         TEXT NOT NULL,
	id_number         TEXT NOT NULL,
	id_type           TEXT NOT NULL DEFAULT '',
	relationship      TEXT NOT NULL,
	phone             TEXT NOT NULL,
	address           TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	reason            TEXT NOT NULL DEFAULT '',
	scheduled_date    TEXT NOT NULL DEFAULT '',
	check_in_time     TEXT NOT NULL DEFAULT '',
	check_out_time    TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL,
	denial_reason     TEXT NOT NULL DEFAULT '',
	items_declaration TEXT NOT NULL DEFAULT '',
	flagged           BOOLEAN NOT NULL DEFAULT FALSE,
	flag_reason       TEXT NOT NULL DEFAULT '',
	approved_by_id    UUID,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX inmate_visits_inmate_idx ON inmate_visits (inmate_id);
CREATE INDEX inmate_visits_status_idx ON inmate_visits (status);

CREATE TABLE audit_events (
	id         UUID PRIMARY KEY,
	category   TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL,
	subject    TEXT NOT NULL,
	subject_id TEXT NOT NULL,
	inmate_id  UUID,
	action     TEXT NOT NULL,
	actor_id   UUID,
	reason     TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX audit_events_inmate_idx ON audit_events (inmate_id) WHERE inmate_id IS NOT NULL;
`
