// ABOUTME: SQLite database schema for the health-tracking store
// ABOUTME: Creates all tables and indexes for logs, correlations, and insights
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Per-user profile fields read by the insight pipeline
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    name TEXT,
    age INTEGER,
    conditions TEXT,
    goals TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Raw daily tracking entries; a calendar day may have several rows
CREATE TABLE IF NOT EXISTS daily_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    logged_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    sleep_hours REAL,
    mood INTEGER,
    tags TEXT,
    symptoms TEXT,
    notes TEXT
);

-- Medication regimen
CREATE TABLE IF NOT EXISTS medications (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    active INTEGER DEFAULT 1
);

-- Per-day medication intake records
CREATE TABLE IF NOT EXISTS medication_intakes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    medication_id TEXT NOT NULL REFERENCES medications(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'taken'
);

-- Factor→symptom correlations, fully replaced per user on each run
CREATE TABLE IF NOT EXISTS correlations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    factor TEXT NOT NULL,
    symptom TEXT NOT NULL,
    direction TEXT NOT NULL,
    confidence REAL NOT NULL,
    effect_size_pct REAL NOT NULL,
    occurrences INTEGER NOT NULL,
    total_opportunities INTEGER NOT NULL,
    lag_days INTEGER NOT NULL,
    computed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Daily wellness scores; recommendation is a legacy write-through field
CREATE TABLE IF NOT EXISTS score_history (
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    score REAL NOT NULL,
    recommendation TEXT,
    PRIMARY KEY (user_id, date)
);

-- Cycle/bleeding events
CREATE TABLE IF NOT EXISTS cycle_events (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    kind TEXT NOT NULL,
    stage TEXT
);

-- Delivered insights, one row per (user, date)
CREATE TABLE IF NOT EXISTS insights (
    user_id TEXT NOT NULL,
    date TEXT NOT NULL,
    payload TEXT NOT NULL,
    narrative TEXT,
    story TEXT,
    forecast TEXT,
    nudge_title TEXT,
    nudge_body TEXT,
    source TEXT NOT NULL,
    failure_reason TEXT,
    prompt_tokens INTEGER DEFAULT 0,
    completion_tokens INTEGER DEFAULT 0,
    total_tokens INTEGER DEFAULT 0,
    latency_ms INTEGER DEFAULT 0,
    pipeline_version TEXT,
    status TEXT NOT NULL DEFAULT 'complete',
    computed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, date)
);

-- Legacy weekly narrative projection
CREATE TABLE IF NOT EXISTS weekly_stories (
    user_id TEXT NOT NULL,
    week_start TEXT NOT NULL,
    story TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, week_start)
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_logs_user_date ON daily_logs(user_id, date);
CREATE INDEX IF NOT EXISTS idx_intakes_user_date ON medication_intakes(user_id, date);
CREATE INDEX IF NOT EXISTS idx_medications_user ON medications(user_id);
CREATE INDEX IF NOT EXISTS idx_correlations_user ON correlations(user_id);
CREATE INDEX IF NOT EXISTS idx_cycle_user_date ON cycle_events(user_id, date);
`
