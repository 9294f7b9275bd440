// Package crypto encrypts the cached Gig-o-Matic auth token at rest.
//
// Encryption is opt-in: when no passphrase is configured the Encryptor is nil
// and values pass through unchanged, so a plaintext token file keeps working.
package crypto
