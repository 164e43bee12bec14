package db

const (
	// driverName is the database/sql name modernc.org/sqlite registers under
	driverName = "sqlite"

	// sqlDateLayout matches how dteday is stored
	sqlDateLayout = "2006-01-02"
)
