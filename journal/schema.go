package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	series TEXT NOT NULL,
	backend TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	period TEXT NOT NULL,
	bars INTEGER NOT NULL,
	indicators TEXT NOT NULL,
	notes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bars (
	run_id TEXT NOT NULL,
	series TEXT NOT NULL,
	idx INTEGER NOT NULL,
	begin_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	open TEXT NOT NULL,
	high TEXT NOT NULL,
	low TEXT NOT NULL,
	close TEXT NOT NULL,
	volume TEXT NOT NULL,
	amount TEXT NOT NULL,
	trades INTEGER NOT NULL,
	PRIMARY KEY (run_id, series, idx)
);

CREATE TABLE IF NOT EXISTS indicator_values (
	run_id TEXT NOT NULL,
	series TEXT NOT NULL,
	indicator TEXT NOT NULL,
	idx INTEGER NOT NULL,
	time DATETIME NOT NULL,
	value TEXT NOT NULL,
	value_f REAL,
	PRIMARY KEY (run_id, indicator, idx)
);

CREATE INDEX IF NOT EXISTS idx_values_time ON indicator_values(indicator, time);
`
