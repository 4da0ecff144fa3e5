package store

// SQL statements for database operations
const (
	createTablesQuery = `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS songs (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			audio_key TEXT NOT NULL,
			art_key TEXT NOT NULL,
			art_artist TEXT NOT NULL,
			easy_difficulty TEXT,
			easy_chart_key TEXT,
			easy_charter TEXT,
			normal_difficulty TEXT,
			normal_chart_key TEXT,
			normal_charter TEXT,
			hard_difficulty TEXT,
			hard_chart_key TEXT,
			hard_charter TEXT,
			uploader_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS favorites (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			song_id BIGINT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, song_id)
		);
	`

	// User related queries
	insertUserQuery = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`
	selectUserByIDQuery = `
		SELECT id, username, password_hash FROM users WHERE id = $1
	`
	selectUserByUsernameQuery = `
		SELECT id, username, password_hash FROM users WHERE username = $1
	`
	selectUsersQuery = `
		SELECT id, username, password_hash FROM users
		ORDER BY id OFFSET $1 LIMIT $2
	`
	updateUserQuery = `
		UPDATE users SET username = $2, password_hash = $3 WHERE id = $1
	`
	deleteUserQuery = `
		DELETE FROM users WHERE id = $1
	`

	// Song related queries
	songColumns = `
		id, title, author, audio_key, art_key, art_artist,
		easy_difficulty, easy_chart_key, easy_charter,
		normal_difficulty, normal_chart_key, normal_charter,
		hard_difficulty, hard_chart_key, hard_charter,
		uploader_id
	`
	insertSongQuery = `
		INSERT INTO songs (
			title, author, audio_key, art_key, art_artist,
			easy_difficulty, easy_chart_key, easy_charter,
			normal_difficulty, normal_chart_key, normal_charter,
			hard_difficulty, hard_chart_key, hard_charter,
			uploader_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	selectSongByIDQuery = `
		SELECT ` + songColumns + ` FROM songs WHERE id = $1
	`
	selectSongsQuery = `
		SELECT ` + songColumns + ` FROM songs
		ORDER BY id OFFSET $1 LIMIT $2
	`
	deleteSongQuery = `
		DELETE FROM songs WHERE id = $1
	`
	countSongsQuery = `
		SELECT COUNT(id) FROM songs
	`

	// Favorite edge queries. The composite primary key makes the edge
	// set absorb repeated inserts.
	insertFavoriteQuery = `
		INSERT INTO favorites (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING
	`
	deleteFavoriteQuery = `
		DELETE FROM favorites WHERE user_id = $1 AND song_id = $2
	`
	selectFavoriteQuery = `
		SELECT 1 FROM favorites WHERE user_id = $1 AND song_id = $2
	`
	selectFavoritesQuery = `
		SELECT ` + songColumns + ` FROM songs
		JOIN favorites ON favorites.song_id = songs.id
		WHERE favorites.user_id = $1
		ORDER BY songs.id
	`
)
