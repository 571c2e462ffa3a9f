package driver

import (
	"database/sql/driver"
	"errors"
)

// Result implements driver.Result. An update statement has no insert id;
// RowsAffected reports the duplicate-weighted row count of the update
// cursor.
type Result struct {
	rowsAffected int64
}

func (r Result) LastInsertId() (int64, error) {
	return 0, errors.New("rdfox driver: no insert id")
}

func (r Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

// Ensure Result implements driver.Result.
var _ driver.Result = Result{}
