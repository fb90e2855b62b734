package model

// All returns every model managed by AutoMigrate, parents first.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&ExpenseModel{},
		&EmailQueueModel{},
	}
}
