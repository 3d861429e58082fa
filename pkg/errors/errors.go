package errors

import "errors"

// ErrOptimisticLock the row changed since it was read
var ErrOptimisticLock = errors.New("this record was changed by someone else, please reload and try again")
