// Package memory provides minimal run-state persistence.
//
// Persistence model:
//   - The workspace is stored structurally (status, ordered block list
//     with ids, answer), so a resumed run reconstructs ids and order
//     exactly. The rendered text form is never persisted or re-parsed.
package memory
