// Package paste decodes the encrypted payloads the listing links point at.
//
// Download links reference PrivateBin pastes. The reference carries the
// paste id in its query and the base58 encoded key in its fragment, which
// is never sent to the paste server:
//
//	https://paste.example/?0123456789abcdef#6Xk...base58...
//
// Decoding one reference:
//  1. Fetch the paste JSON from https://paste.example/?0123456789abcdef
//  2. Derive the AES key with PBKDF2-HMAC-SHA256 from the fragment key
//  3. Open the AES-GCM ciphertext, authenticating the paste's adata
//  4. Inflate the plaintext when the paste was compressed
//  5. Read the attachment data URI and its file name
//
// A paste that decrypts but carries no attachment returns
// ErrAttachmentMissing; callers treat that as an expected outcome rather
// than a failure.
package paste
