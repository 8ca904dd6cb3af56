// Package db persists rendered scores.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsphweid/chordstave/model"
)

var ErrNotFound = errors.New("score not found")

type Store interface {
	Save(ctx context.Context, score model.StoredScore) error
	Load(ctx context.Context, id string) (model.StoredScore, error)
	Close() error
}

type Options struct {
	// Driver is "sqlite" or "dynamodb".
	Driver string
	// Path of the sqlite database file, or ":memory:".
	Path     string
	Endpoint string
	Region   string
	Table    string
}

func New(opts Options) (Store, error) {
	switch opts.Driver {
	case "sqlite", "":
		s, err := NewSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "dynamodb":
		d, err := NewDynamo(opts.Endpoint, opts.Region, opts.Table)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
