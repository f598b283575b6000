package store

// SetCodeGenerator replaces the survey code generator for a test.
func SetCodeGenerator(s *Store, fn func() (string, error)) { s.newCode = fn }
