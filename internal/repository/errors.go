// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the auth
// service and the HTTP handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when an insert or update collides with the
// unique index on users.email. Handlers should translate this into a
// storage failure; it is kept distinct so it can be logged.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("user not found")

// ErrProductNotFound is returned when an inventory row does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrSupplierNotFound is returned when a supplier row does not exist.
var ErrSupplierNotFound = errors.New("supplier not found")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
