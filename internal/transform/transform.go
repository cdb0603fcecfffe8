// Package transform holds the statements that populate the star schema from
// the staging tables.
package transform

import (
	"github.com/aevon-lab/sparkify-dwh/internal/core/storage"
)

const (
	StatementSongPlaysInsert = "insert_songplays"
	StatementUsersDelete     = "delete_users"
	StatementUsersInsert     = "insert_users"
	StatementSongsInsert     = "insert_songs"
	StatementArtistsInsert   = "insert_artists"
	StatementTimeInsert      = "insert_time"
)

// Statements returns the six transform statements in execution order.
// Each must be committed before the next one runs.
func Statements() []storage.Statement {
	return []storage.Statement{
		{Name: StatementSongPlaysInsert, Query: querySongPlaysInsert},
		{Name: StatementUsersDelete, Query: queryUsersDelete},
		{Name: StatementUsersInsert, Query: queryUsersInsert},
		{Name: StatementSongsInsert, Query: querySongsInsert},
		{Name: StatementArtistsInsert, Query: queryArtistsInsert},
		{Name: StatementTimeInsert, Query: queryTimeInsert},
	}
}
