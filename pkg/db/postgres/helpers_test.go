package postgres_test

import "os"

func writeFile(path string) error {
	return os.WriteFile(path, []byte("SELECT 1;"), 0o600)
}
