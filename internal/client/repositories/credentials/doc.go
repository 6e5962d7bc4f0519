// Package credentials provides the durable key/value store behind the
// client's saved session.
//
// Every value carries an absolute expiry. Reads treat expired rows exactly like
// missing ones, which is what a browser cookie jar does with a stale cookie.
//
// # Schema
//
//	credentials(key TEXT PRIMARY KEY, value BLOB NOT NULL, expires_at INTEGER NOT NULL)
//
// expires_at is stored as Unix milliseconds.
//
// # Contract
//
//   - Get returns (nil, nil) for an absent or expired key.
//   - SetAll writes every pair with the same expiry inside one transaction:
//     after it returns, either all keys were written or none were.
//   - Delete removes the given keys and is idempotent.
package credentials
