// Package transfer implements the chunked authenticated-encryption
// transfer protocol between the client and the opaque server.
//
// Uploads split the plaintext into fixed 10 MB chunks, each encrypted
// independently under the resolved content key with a fresh nonce, and
// move up to three chunks concurrently; the final chunk is held back
// until every prior chunk is acknowledged because its receipt finalizes
// the object server-side. Downloads run strictly sequentially so output
// ordering never requires buffering the whole object.
//
// Chunks are independently decryptable; ordering matters only for
// reassembly of the plaintext stream, not for cryptographic validity. A
// failed chunk fails the whole transfer: the protocol has no
// partial-object resume, and a download never emits partial plaintext
// for a chunk that failed authentication.
package transfer
