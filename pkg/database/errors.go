package database

import "errors"

// ErrNotReady indicates the connection pool has not passed its startup ping.
var ErrNotReady = errors.New("database not ready")
