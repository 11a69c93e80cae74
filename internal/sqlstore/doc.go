// Package sqlstore provides the SQLite storage backend.
//
// It offers the same repository contracts as the flat-file stores in
// package storage, backed by a single SQLite database file instead of a
// directory of delimited files. The catalog tables are the source of
// truth here; bundle composition lives in a child table and is
// reassembled into live product references on every load, matching the
// flat-file store's hydration behavior.
package sqlstore
