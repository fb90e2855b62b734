// Package mock provides in-process stand-ins for the suite's external services.
package mock

import (
	"database/sql"
	"fmt"
	"reflect"
	"sort"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Db is an in-memory SQLite database shared by every scenario of a suite run.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens a private in-memory database and migrates the given models, keyed by table name.
func NewDb(models map[string]any) (*Db, error) {
	sqlDB, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Db{DbConn: dbConn, models: models}
	if err := dbConn.AutoMigrate(d.modelList()...); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return d, nil
}

// Reset deletes every row so each scenario starts from an empty schema.
func (d *Db) Reset() error {
	for _, model := range d.modelList() {
		if err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Count returns the number of rows of table matching the column criteria.
func (d *Db) Count(table string, criteria map[string]any) (int64, error) {
	model, ok := d.models[table]
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	query := d.DbConn.Model(reflect.New(reflect.TypeOf(model).Elem()).Interface())
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Close closes the underlying connection.
func (d *Db) Close() error {
	sqlDB, err := d.DbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// modelList returns the models in table-name order so resets are deterministic.
func (d *Db) modelList() []any {
	tables := make([]string, 0, len(d.models))
	for table := range d.models {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	list := make([]any, 0, len(tables))
	for _, table := range tables {
		list = append(list, d.models[table])
	}
	return list
}
