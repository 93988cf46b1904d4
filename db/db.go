package db

import (
	"context"
	"fmt"
)

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
	Memory   DBType = "memory"
)

// ParseDBType validates the DB_TYPE setting.
func ParseDBType(s string) (DBType, error) {
	switch t := DBType(s); t {
	case Postgres, Mongo, Memory:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", s)
	}
}

type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
}
