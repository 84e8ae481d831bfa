package observation

import (
	"fmt"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mschleck/lcps-go/internal/conf"
	"github.com/mschleck/lcps-go/internal/errors"
)

// DataStore wraps the database connection used to persist candidates.
type DataStore struct {
	db *gorm.DB
}

// InitializeDatabase sets up the database connection from the output
// settings. SQLite takes priority when both outputs are enabled.
func InitializeDatabase(settings *conf.Settings) (*DataStore, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch {
	case settings.Output.SQLite.Enabled:
		dir, fileName := filepath.Split(settings.Output.SQLite.Path)
		absolutePath := filepath.Join(conf.GetBasePath(dir), fileName)
		db, err = gorm.Open(sqlite.Open(absolutePath), gormConfig)
		if err != nil {
			return nil, dbErr("failed to open SQLite database", err, absolutePath)
		}

	case settings.Output.MySQL.Enabled:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			settings.Output.MySQL.Username, settings.Output.MySQL.Password,
			settings.Output.MySQL.Host, settings.Output.MySQL.Port,
			settings.Output.MySQL.Database)
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
		if err != nil {
			return nil, dbErr("failed to open MySQL database", err, settings.Output.MySQL.Host)
		}

	default:
		return nil, nil
	}

	if err := db.AutoMigrate(&Dip{}); err != nil {
		return nil, dbErr("failed to migrate candidate table", err, "")
	}
	return &DataStore{db: db}, nil
}

// Save inserts one candidate record.
func (ds *DataStore) Save(dip *Dip) error {
	if ds == nil || ds.db == nil {
		return nil
	}
	if err := ds.db.Create(dip).Error; err != nil {
		return dbErr("failed to save candidate", err, dip.InputFile)
	}
	return nil
}

func dbErr(msg string, err error, context string) error {
	b := errors.New(fmt.Errorf("%s: %w", msg, err)).
		Component("observation").
		Category(errors.CategoryDatabase)
	if context != "" {
		b = b.Context("target", context)
	}
	return b.Build()
}
