// Package keychain resolves the symmetric key protecting any folder or
// item by walking the server-supplied chain of wrapped keys from the
// viewer's root down to the target.
//
// The chain shape depends on the viewer, not only on the folder: the same
// folder resolves through the owner's full ancestry but is a pseudo-root
// for a grantee, whose copy of the key is wrapped directly under their
// public key. Ownership and sharing establish private per-viewer re-entry
// points into the hierarchy.
package keychain
