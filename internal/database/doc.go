// Package database provides the SQLite-backed dedup store.
//
// The store holds exactly one table, games, mapping a listing title to the
// file name of the artifact decoded for it. The scraper consults it before
// decoding a candidate and updates it once per processed page.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The database is a single local file with no server to run
// 2. The CGO-free driver allows easy cross-compilation
// 3. Transactions give an atomic update per processed page
// 4. WAL mode lets readers proceed while a batch is committed
package database
