package schema

// Table names.
const (
	TableStagingEvents = "staging_events"
	TableStagingSongs  = "staging_songs"
	TableSongPlays     = "songplays"
	TableUsers         = "users"
	TableSongs         = "songs"
	TableArtists       = "artists"
	TableTime          = "time"
)

// StagingEvents holds raw activity log rows. Column order matches the
// JSONPaths file used by the events COPY.
var StagingEvents = Table{
	Name: TableStagingEvents,
	Columns: []Column{
		{Name: "se_artist", Type: "VARCHAR"},
		{Name: "se_auth", Type: "VARCHAR"},
		{Name: "se_firstname", Type: "VARCHAR"},
		{Name: "se_gender", Type: "CHAR"},
		{Name: "se_iteminsession", Type: "INTEGER"},
		{Name: "se_lastname", Type: "VARCHAR"},
		{Name: "se_length", Type: "NUMERIC(12,5)"},
		{Name: "se_level", Type: "VARCHAR"},
		{Name: "se_location", Type: "VARCHAR"},
		{Name: "se_method", Type: "VARCHAR"},
		{Name: "se_page", Type: "VARCHAR"},
		{Name: "se_registration", Type: "BIGINT"},
		{Name: "se_sessionid", Type: "INTEGER"},
		{Name: "se_song", Type: "VARCHAR"},
		{Name: "se_status", Type: "INTEGER"},
		{Name: "se_ts", Type: "BIGINT", SortKey: true},
		{Name: "se_useragent", Type: "VARCHAR"},
		{Name: "se_userid", Type: "INTEGER"},
	},
	DistStyle: DistAuto,
}

// StagingSongs holds raw song catalog rows; COPY maps JSON keys to these names.
var StagingSongs = Table{
	Name: TableStagingSongs,
	Columns: []Column{
		{Name: "song_id", Type: "VARCHAR"},
		{Name: "num_songs", Type: "INTEGER"},
		{Name: "title", Type: "VARCHAR"},
		{Name: "artist_name", Type: "VARCHAR"},
		{Name: "artist_latitude", Type: "FLOAT"},
		{Name: "year", Type: "INTEGER", SortKey: true},
		{Name: "duration", Type: "FLOAT"},
		{Name: "artist_id", Type: "VARCHAR"},
		{Name: "artist_longitude", Type: "FLOAT"},
		{Name: "artist_location", Type: "VARCHAR"},
	},
	DistStyle: DistEven,
}

// SongPlays is the fact table: one row per NextSong event.
var SongPlays = Table{
	Name: TableSongPlays,
	Columns: []Column{
		{Name: "sp_songplayid", Type: "INTEGER", NotNull: true, Identity: true},
		{Name: "sp_starttime", Type: "TIMESTAMP", NotNull: true, SortKey: true},
		{Name: "sp_userid", Type: "INTEGER", NotNull: true},
		{Name: "sp_level", Type: "VARCHAR"},
		{Name: "sp_songid", Type: "VARCHAR"},
		{Name: "sp_artistid", Type: "VARCHAR"},
		{Name: "sp_sessionid", Type: "INTEGER"},
		{Name: "sp_location", Type: "VARCHAR"},
		{Name: "sp_useragent", Type: "VARCHAR"},
	},
	PrimaryKey: []string{"sp_songplayid"},
	DistStyle:  DistEven,
}

// Users holds one row per listener.
var Users = Table{
	Name: TableUsers,
	Columns: []Column{
		{Name: "u_userid", Type: "INTEGER", NotNull: true, DistKey: true, SortKey: true},
		{Name: "u_firstname", Type: "VARCHAR"},
		{Name: "u_lastname", Type: "VARCHAR"},
		{Name: "u_gender", Type: "VARCHAR"},
		{Name: "u_level", Type: "VARCHAR"},
	},
	PrimaryKey: []string{"u_userid"},
}

// Songs is the song catalog dimension.
var Songs = Table{
	Name: TableSongs,
	Columns: []Column{
		{Name: "s_songid", Type: "VARCHAR", NotNull: true, SortKey: true},
		{Name: "s_title", Type: "VARCHAR"},
		{Name: "s_artistid", Type: "VARCHAR"},
		{Name: "s_year", Type: "SMALLINT"},
		{Name: "s_duration", Type: "NUMERIC(12,5)"},
	},
	PrimaryKey: []string{"s_songid"},
	DistStyle:  DistAll,
}

// Artists is the artist dimension.
var Artists = Table{
	Name: TableArtists,
	Columns: []Column{
		{Name: "a_artistid", Type: "VARCHAR", NotNull: true, SortKey: true},
		{Name: "a_name", Type: "VARCHAR"},
		{Name: "a_location", Type: "VARCHAR"},
		{Name: "a_latitude", Type: "FLOAT"},
		{Name: "a_longitude", Type: "FLOAT"},
	},
	PrimaryKey: []string{"a_artistid"},
	DistStyle:  DistAll,
}

// Time breaks a play timestamp into calendar parts. t_start_time_ms keeps the
// raw epoch-millisecond value used to skip timestamps already loaded.
var Time = Table{
	Name: TableTime,
	Columns: []Column{
		{Name: "t_start_time", Type: "TIMESTAMP", NotNull: true, SortKey: true},
		{Name: "t_start_time_ms", Type: "BIGINT", NotNull: true},
		{Name: "t_hour", Type: "SMALLINT"},
		{Name: "t_day", Type: "SMALLINT"},
		{Name: "t_week", Type: "SMALLINT"},
		{Name: "t_month", Type: "SMALLINT"},
		{Name: "t_year", Type: "SMALLINT"},
		{Name: "t_weekday", Type: "SMALLINT"},
	},
	PrimaryKey: []string{"t_start_time"},
	DistStyle:  DistAll,
}

// Tables returns all seven tables: staging first, then the fact table and dimensions.
func Tables() []Table {
	return []Table{StagingEvents, StagingSongs, SongPlays, Users, Songs, Artists, Time}
}

// TableNames returns the names of Tables in the same order.
func TableNames() []string {
	tables := Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
