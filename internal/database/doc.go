// Package database provides the PostgreSQL connection pool and schema migrations.
//
// The watcher keeps three logical collections in PostgreSQL:
//   - subscribers: the front-end users
//   - wallet_subscriptions: which subscriber tracks which wallet (bounded per subscriber)
//   - processed_events: write-once (wallet, event_id) facts used for deduplication
//
// Migrations are embedded and applied in lexical order on startup; every file is idempotent.
package database
