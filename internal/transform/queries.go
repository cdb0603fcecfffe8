package transform

// Play timestamps are derived from epoch milliseconds at millisecond
// precision, so songplays.sp_starttime and time.t_start_time agree and
// t_start_time is unique per t_start_time_ms. The expressions run unchanged on
// Redshift and PostgreSQL.

const (
	// querySongPlaysInsert records one fact row per NextSong event. Catalog
	// matches are best effort on exact (artist name, title); when the catalog
	// holds several songs with the same pair the most recent year wins, so an
	// event never fans out into several plays.
	querySongPlaysInsert = `
		INSERT INTO songplays (
			sp_starttime, sp_userid, sp_level, sp_songid, sp_artistid,
			sp_sessionid, sp_location, sp_useragent
		)
		SELECT
			TIMESTAMP 'epoch' + se.se_ts / 1000.0 * INTERVAL '1 second',
			se.se_userid,
			se.se_level,
			ss.song_id,
			ss.artist_id,
			se.se_sessionid,
			se.se_location,
			se.se_useragent
		FROM staging_events se
		LEFT OUTER JOIN (
			SELECT
				song_id, artist_id, artist_name, title,
				ROW_NUMBER() OVER (
					PARTITION BY artist_name, title
					ORDER BY year DESC NULLS LAST, song_id ASC
				) AS rn
			FROM staging_songs
		) ss
			ON se.se_artist = ss.artist_name
			AND se.se_song = ss.title
			AND ss.rn = 1
		WHERE se.se_page = 'NextSong'
	`

	// queryUsersDelete removes every user present anywhere in the staged batch
	// so the following insert can replace them.
	queryUsersDelete = `
		DELETE FROM users
		USING staging_events se
		WHERE users.u_userid = se.se_userid
	`

	// queryUsersInsert keeps, per user, the NextSong event with the latest
	// timestamp. Ties fall back to session id, then item in session, then
	// level, all descending.
	queryUsersInsert = `
		INSERT INTO users (u_userid, u_firstname, u_lastname, u_gender, u_level)
		SELECT se_userid, se_firstname, se_lastname, se_gender, se_level
		FROM (
			SELECT
				se_userid, se_firstname, se_lastname, se_gender, se_level,
				ROW_NUMBER() OVER (
					PARTITION BY se_userid
					ORDER BY
						se_ts DESC NULLS LAST,
						se_sessionid DESC NULLS LAST,
						se_iteminsession DESC NULLS LAST,
						se_level DESC NULLS LAST
				) AS rn
			FROM staging_events
			WHERE se_userid IS NOT NULL
			  AND se_page = 'NextSong'
		) latest
		WHERE rn = 1
	`

	// querySongsInsert appends songs whose id is not yet in the dimension.
	// Existing ids are never updated.
	querySongsInsert = `
		INSERT INTO songs (s_songid, s_title, s_artistid, s_year, s_duration)
		SELECT song_id, title, artist_id, year, duration
		FROM (
			SELECT
				song_id, title, artist_id, year, duration,
				ROW_NUMBER() OVER (
					PARTITION BY song_id
					ORDER BY year DESC NULLS LAST, duration DESC NULLS LAST
				) AS rn
			FROM staging_songs
			WHERE song_id IS NOT NULL
			  AND song_id NOT IN (SELECT s_songid FROM songs)
		) batch
		WHERE rn = 1
	`

	// queryArtistsInsert keeps the most recent year's row per artist in the
	// batch, then appends artists whose id is not yet in the dimension.
	queryArtistsInsert = `
		INSERT INTO artists (a_artistid, a_name, a_location, a_latitude, a_longitude)
		SELECT artist_id, artist_name, artist_location, artist_latitude, artist_longitude
		FROM (
			SELECT
				artist_id, artist_name, artist_location, artist_latitude, artist_longitude,
				ROW_NUMBER() OVER (
					PARTITION BY artist_id
					ORDER BY year DESC NULLS LAST, song_id ASC
				) AS rn
			FROM staging_songs
			WHERE artist_id IS NOT NULL
			  AND artist_id NOT IN (SELECT a_artistid FROM artists)
		) batch
		WHERE rn = 1
	`

	// queryTimeInsert adds one calendar row per distinct NextSong timestamp
	// not already loaded. dow follows the warehouse convention: 0 = Sunday.
	queryTimeInsert = `
		INSERT INTO time (
			t_start_time, t_start_time_ms, t_hour, t_day, t_week, t_month, t_year, t_weekday
		)
		SELECT DISTINCT
			start_time,
			se_ts,
			EXTRACT(hour FROM start_time),
			EXTRACT(day FROM start_time),
			EXTRACT(week FROM start_time),
			EXTRACT(month FROM start_time),
			EXTRACT(year FROM start_time),
			EXTRACT(dow FROM start_time)
		FROM (
			SELECT
				se_ts,
				TIMESTAMP 'epoch' + se_ts / 1000.0 * INTERVAL '1 second' AS start_time
			FROM staging_events
			WHERE se_page = 'NextSong'
			  AND se_ts IS NOT NULL
			  AND se_ts NOT IN (SELECT t_start_time_ms FROM time)
		) plays
	`
)
