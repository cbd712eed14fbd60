// Package identity derives the account-level keys: the symmetric user key
// from identifier and password, the login verifier sent to the server in
// place of the password, and the RSA identity key pair generated once at
// signup.
//
// All derivations are pure. There is no retry or partial state: a failure
// means bad inputs, and identical inputs always produce identical output.
package identity
