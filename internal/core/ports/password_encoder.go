package ports

// PasswordEncoder is the one-way credential encoder. Verify must use the same
// algorithm that produced the hash.
type PasswordEncoder interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) error
}
