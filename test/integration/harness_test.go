//go:build integration

package integration

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/aevon-lab/sparkify-dwh/internal/core/storage/postgres"
	"github.com/aevon-lab/sparkify-dwh/internal/metrics"
	"github.com/aevon-lab/sparkify-dwh/internal/pipeline"
	"github.com/aevon-lab/sparkify-dwh/internal/schema"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

type warehouseHarness struct {
	adapter  *postgres.Adapter
	db       *sql.DB
	runner   *pipeline.Runner
	recorder *metrics.Recorder
}

// startWarehouse runs a throwaway PostgreSQL and resets the schema in the
// postgres dialect.
func startWarehouse(t *testing.T) *warehouseHarness {
	t.Helper()
	ctx := context.Background()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	ctr, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("dwh"),
		tcpostgres.WithUsername("dwhuser"),
		tcpostgres.WithPassword("dwhpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to cleanup postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	adapter, err := postgres.NewAdapter(dsn, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	recorder := metrics.NewRecorder()
	h := &warehouseHarness{
		adapter:  adapter,
		db:       adapter.DB(),
		runner:   pipeline.NewRunner(adapter, recorder),
		recorder: recorder,
	}
	require.NoError(t, h.runner.ResetSchema(ctx, schema.DialectPostgres))
	return h
}

func (h *warehouseHarness) count(t *testing.T, table string) int64 {
	t.Helper()
	n, err := h.adapter.CountRows(context.Background(), table)
	require.NoError(t, err)
	return n
}

type stagedEvent struct {
	artist    interface{}
	song      interface{}
	firstName string
	lastName  string
	gender    string
	level     string
	page      string
	sessionID int
	item      int
	ts        int64
	userID    interface{}
}

func (h *warehouseHarness) stageEvents(t *testing.T, events ...stagedEvent) {
	t.Helper()
	for _, e := range events {
		_, err := h.db.Exec(`
			INSERT INTO staging_events (
				se_artist, se_song, se_firstname, se_lastname, se_gender, se_level,
				se_page, se_sessionid, se_iteminsession, se_ts, se_userid,
				se_location, se_useragent, se_length
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'Lake Havasu City-Kingman, AZ', 'Mozilla/5.0', 218.93179)`,
			e.artist, e.song, e.firstName, e.lastName, e.gender, e.level,
			e.page, e.sessionID, e.item, e.ts, e.userID)
		require.NoError(t, err)
	}
}

type stagedSong struct {
	songID         string
	title          string
	artistID       string
	artistName     string
	artistLocation string
	year           int
	duration       float64
}

func (h *warehouseHarness) stageSongs(t *testing.T, songs ...stagedSong) {
	t.Helper()
	for _, s := range songs {
		_, err := h.db.Exec(`
			INSERT INTO staging_songs (
				song_id, num_songs, title, artist_id, artist_name, artist_location,
				artist_latitude, artist_longitude, year, duration
			) VALUES ($1, 1, $2, $3, $4, $5, NULL, NULL, $6, $7)`,
			s.songID, s.title, s.artistID, s.artistName, s.artistLocation, s.year, s.duration)
		require.NoError(t, err)
	}
}
