package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a session whose statements execute on the caller's open
// transaction instead of the connection pool. gorm recognises the *sql.Tx
// as an in-flight transaction and will not open a nested one; commit and
// rollback stay with the caller.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{NewDB: true, Context: db.Statement.Context})
	session.Statement.ConnPool = tx
	return session
}
