package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dmelojr/Diagnos/internal/api"
	dbstore "github.com/dmelojr/Diagnos/internal/db"
)

// openStore picks the backing store from the environment. With
// DIAGNOS_SQLITE_PATH unset the server runs on the in-memory store, which
// loses all data on restart.
func openStore() (api.Store, func(), error) {
	sqlitePath := os.Getenv("DIAGNOS_SQLITE_PATH")
	if sqlitePath == "" {
		log.Printf("DIAGNOS_SQLITE_PATH not set, using in-memory store (data is not persisted)")
		return api.NewMemoryStore(), func() {}, nil
	}
	return openSQLite(sqlitePath, os.Getenv("DIAGNOS_MIGRATIONS_DIR"))
}

func openSQLite(path, migrationsDir string) (api.Store, func(), error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000&_foreign_keys=on", filepath.ToSlash(path))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	closeDB := func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			log.Printf("warning: failed to close sqlite db: %v", cerr)
		}
	}

	if err := dbstore.RunMigrations(sqliteDB, migrationsDir); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := dbstore.NewStore(sqliteDB)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("init sqlite store: %w", err)
	}
	log.Printf("sqlite store ready at %s", path)
	return store, closeDB, nil
}
