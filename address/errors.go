package address

import "errors"

var errInvalidLength = errors.New("address: invalid byte length")
