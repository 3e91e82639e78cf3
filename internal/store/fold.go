package store

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// foldFunc is a SQL scalar lowering text with Unicode case rules. SQLite's
// built-in LOWER and LIKE only fold ASCII.
const foldFunc = "lnr_fold"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(foldFunc, 1, foldValue); err != nil {
		panic(err)
	}
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
