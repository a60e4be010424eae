package model

import "errors"

var ErrCatalogUnavailable = errors.New("book catalog unavailable")
