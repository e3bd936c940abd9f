package storage

const schema = `
CREATE TABLE IF NOT EXISTS cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	division INTEGER NOT NULL,
	case_title TEXT NOT NULL DEFAULT '',
	panel_date TEXT NOT NULL,
	primary_number TEXT NOT NULL,
	oral_arguments INTEGER NOT NULL DEFAULT 1,
	opinion_date TEXT,
	opinion_publication_status TEXT,
	disposition_status TEXT NOT NULL DEFAULT 'normal',
	lower_court TEXT NOT NULL DEFAULT '',
	lower_court_case_number TEXT NOT NULL DEFAULT '',
	court_level TEXT NOT NULL DEFAULT 'appeals',
	scraped_at TEXT NOT NULL,
	UNIQUE(division, panel_date, primary_number)
);

CREATE TABLE IF NOT EXISTS case_numbers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	case_number TEXT NOT NULL,
	is_primary INTEGER NOT NULL DEFAULT 0,
	UNIQUE(case_id, case_number)
);

CREATE TABLE IF NOT EXISTS litigants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	UNIQUE(case_id, name, role)
);

CREATE TABLE IF NOT EXISTS attorneys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	UNIQUE(case_id, name)
);

CREATE TABLE IF NOT EXISTS judges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	UNIQUE(case_id, name)
);

CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_panel_date ON cases(panel_date);
CREATE INDEX IF NOT EXISTS idx_case_numbers_number ON case_numbers(case_number);
CREATE INDEX IF NOT EXISTS idx_attorneys_name ON attorneys(name COLLATE NOCASE);
`
