package inits

import (
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/ruralbankph/loan_inquiry_relay/routines"
)

var DB *memdb.MemDB

// DBInit builds the in-memory submission ledger used for duplicate
// suppression and starts the expiry sweep. Nothing in the ledger outlives
// the process.
func DBInit(sweepInterval time.Duration) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"submission": {
				Name: "submission",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:         "id",
						Unique:       true,
						Indexer:      &memdb.StringFieldIndex{Field: "Email"},
						AllowMissing: false,
					},
					"expiry": {
						Name:         "expiry",
						Unique:       false,
						Indexer:      &memdb.StringFieldIndex{Field: "Expiry"},
						AllowMissing: false,
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		panic(err)
	}
	go routines.StartCleanupRoutine(db, sweepInterval)
	DB = db
}
