package core

// PasswordHasher turns plaintext passwords into stored credentials and checks them
type PasswordHasher interface {
	// Hash derives a storable credential from a plaintext password
	Hash(password string) (string, error)

	// Verify reports whether the password matches the stored credential.
	// A mismatch is (false, nil); an error means the stored credential is unusable.
	Verify(hash, password string) (bool, error)

	// NeedsRehash reports whether the stored credential should be replaced
	// with a fresh Hash result after a successful Verify
	NeedsRehash(hash string) bool
}
