// Package session holds the explicit per-login context for vault
// operations.
//
// A Session carries the unlocked identity key pair and the server
// connection; every operation takes it (or data resolved through it) as
// an argument. There is no ambient current-folder or current-key state
// anywhere in the client: whoever owns the Session owns the lifecycle of
// every key resolved through it.
package session
