package database

// migrationsSQL contains all database migrations, applied in order by
// version number. Released versions are never edited.
var migrationsSQL = map[int]string{
	1: migrationV1Festivals,
	2: migrationV2SavedLocations,
}

// migrationV1Festivals stores festival and fast-day records. A date may
// carry several observances, but each name only once.
const migrationV1Festivals = `
CREATE TABLE IF NOT EXISTS festivals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Civil date, YYYY-MM-DD
    date TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('Festival', 'Vrat')),
    description TEXT NOT NULL DEFAULT '',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (date, name)
);

CREATE INDEX IF NOT EXISTS idx_festivals_date ON festivals(date);
`

// migrationV2SavedLocations keeps the last location each client chose.
const migrationV2SavedLocations = `
CREATE TABLE IF NOT EXISTS saved_locations (
    client_id TEXT PRIMARY KEY,
    latitude REAL NOT NULL CHECK (latitude BETWEEN -90 AND 90),
    longitude REAL NOT NULL CHECK (longitude BETWEEN -180 AND 180),
    name TEXT NOT NULL DEFAULT '',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
