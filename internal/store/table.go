package store

import (
	"strconv"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/domain"
)

// Table is the whole persisted state: user ID (stringified) -> record.
// The table is the unit of persistence; FileStore rewrites it wholesale.
type Table map[string]*domain.UserRecord

// GetOrCreate returns the record for id, inserting a fresh empty one if the
// user has never been seen.
func (t Table) GetOrCreate(id string) *domain.UserRecord {
	if r, ok := t[id]; ok {
		return r
	}
	r := domain.NewUserRecord()
	t[id] = r
	return r
}

// Key converts a numeric user ID to its table key. JSON object keys are
// strings, so the table is keyed the same way on disk and in memory.
func Key(userID int64) string { return strconv.FormatInt(userID, 10) }
