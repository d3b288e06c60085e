// Package journal persists per-run conversion outcomes in a SQLite database
// stored inside the output dataset tree. The journal is an operational
// record only: the BIDS dataset itself never depends on it, and deleting the
// database is always safe.
package journal
