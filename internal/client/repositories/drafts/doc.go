// Package drafts persists local résumé drafts in the client's SQLite
// database, keyed by the server-side resume ID (0 for not-yet-saved
// documents).
package drafts
