package db

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var testDBSeq int64

// ConnectTestDB replaces the global ORM with a fresh in-memory SQLite
// database. Each call gets its own named database so tests do not see each
// other's rows; shared cache keeps it alive across the pooled connections
// gorm opens.
func ConnectTestDB() error {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
			NoLowerCase:   false,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	ORM = db
	return nil
}
