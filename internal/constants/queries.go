package constants

// Favorites and search history go through sqlx. Queries use ? placeholders
// and are rebound per driver.
const (
	UpsertFavorite = `
	INSERT INTO favorites (flight_id, added_at, notifications_enabled)
	VALUES (?, ?, ?)
	ON CONFLICT (flight_id) DO UPDATE
	SET added_at = excluded.added_at, notifications_enabled = excluded.notifications_enabled
	`

	DeleteFavorite = `
	DELETE FROM favorites WHERE flight_id = ?
	`

	ListFavorites = `
	SELECT flight_id, added_at, notifications_enabled
	FROM favorites
	ORDER BY added_at DESC
	`

	CountFavoriteByFlightID = `
	SELECT COUNT(1) FROM favorites WHERE flight_id = ?
	`
)

const (
	InsertSearchHistory = `
	INSERT INTO search_history (query, search_type, created_at)
	VALUES (?, ?, ?)
	`

	// Keeps the newest N rows; id breaks ties between equal timestamps.
	TrimSearchHistory = `
	DELETE FROM search_history
	WHERE id NOT IN (
		SELECT id FROM (
			SELECT id FROM search_history
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) AS keep
	)
	`

	RecentSearchHistory = `
	SELECT query, search_type, created_at
	FROM search_history
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`

	ClearSearchHistory = `
	DELETE FROM search_history
	`
)
