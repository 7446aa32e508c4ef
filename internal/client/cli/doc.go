// Package cli provides the interactive ResumeForge command-line client.
//
// It wires configuration, the local draft database, the API client, the
// session state machine, and the live preview synchronizer into an
// interactive REPL. Typical flow: resolve the session (exchanging a one-shot
// OAuth code when one was passed on the command line), restore the last
// local draft, and execute user commands while the preview PDF on disk
// tracks the document being edited.
//
// Key features:
//   - Login / Register / Guest sessions, guest upgrade, email change
//   - Edit the document field by field with a debounced live preview
//   - List / Open / Save / Rename / Delete server-stored resumes
//   - Export a saved resume as a PDF
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
