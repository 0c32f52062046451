// Package store provides durable, encrypted persistence for the bot document.
//
// The document is one JSON file. Sensitive product fields (username,
// password, secret) are sealed individually by the vault, so a corrupt or
// foreign ciphertext only blanks that one field on load.
//
// # Guarantees
//
//   - Atomic writes: Save writes a temporary sibling file and renames it
//     over the canonical path. Readers never observe a half-written file.
//   - Serialised I/O: Load and Save share one mutex; at most one file
//     operation is in flight.
//   - Availability over durability: Load never fails. A missing file yields
//     an empty document; an unreadable or unparsable file is logged and
//     also yields an empty document. Save reports failures to the caller,
//     which keeps its in-memory state.
package store
