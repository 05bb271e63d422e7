package wordlist

import (
	"fmt"
	"os"

	"github.com/ipv6poetry/poetrytools/core/sqlite"
)

// SQLite store schema: one row per word, idx defines the dictionary order.
const storeSchema = `CREATE TABLE IF NOT EXISTS words (
	idx  INTEGER PRIMARY KEY,
	word TEXT NOT NULL
)`

// SaveStore writes the list to a SQLite database at path, replacing any
// existing words table. The store is an alternative single-file shipping
// format for dictionaries; Load picks it up via the ".db" suffix.
func SaveStore(path string, words []string) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`DROP TABLE IF EXISTS words`); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		return fmt.Errorf("create store schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin store transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO words (idx, word) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, w := range words {
		if _, err := stmt.Exec(i, w); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert word %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit store: %w", err)
	}
	return nil
}

// LoadStore reads a dictionary from a SQLite database written by SaveStore.
func LoadStore(path string) (*List, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWordlistNotFound, path)
		}
		return nil, fmt.Errorf("stat store: %w", err)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT word FROM words ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store rows: %w", err)
	}
	return New(words)
}
