// Package encryption seals stored transcripts with an AEAD cipher.
//
// Transcripts hold what was said in a recorded conversation, so exports
// written to object storage can be encrypted at rest. The passphrase is
// hashed with SHA-256 into a 256-bit key. A sealed object is the random
// nonce followed by the ciphertext and its authentication tag.
//
// # Usage
//
//	s, err := encryption.New(encryption.Config{Key: os.Getenv("KEY")})
//	sealed, err := s.Seal(data)
//	data, err = s.Open(sealed)
package encryption
