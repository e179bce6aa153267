// Package store holds the gorm repositories behind the HTTP handlers.
package store

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrReferenced       = errors.New("record is still referenced")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// Column limits shared by the money and quantity checks.
const (
	// MaxAmountCents is the largest DECIMAL(10,2) value in hundredths.
	MaxAmountCents int64 = 9999999999
	// MaxQuantity is the largest signed INT.
	MaxQuantity = 2147483647
)

// MySQL server error numbers.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errRowIsReferenced2 = 1217
	errNoReferencedRow2 = 1216
)

// classify maps driver and gorm errors onto the store sentinels. Anything it
// does not recognise is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	var myErr *mysqldriver.MySQLError

	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDupEntry:
			return ErrDuplicate
		case errRowIsReferenced, errRowIsReferenced2:
			return ErrReferenced
		case errNoReferencedRow, errNoReferencedRow2:
			return ErrInvalidReference
		}
	}

	return err
}
