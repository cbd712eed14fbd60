// Package server defines the client's boundary with the untrusted
// yeetfile server: the wire types, the Remote interface, an HTTP
// implementation, and an in-memory implementation used by tests.
//
// The server is an opaque encrypted-blob store and relay. Everything it
// stores is either public (public keys, ids, chunk counts, salts) or an
// envelope it cannot open. No plaintext and no unwrapped key ever crosses
// this boundary, and even full compromise of the server yields neither.
//
// Implementations never retry a failed call. The client's error taxonomy
// requires the caller to distinguish a rejected request from corruption
// and from a wrong password, and an invisible retry would blur that.
package server
