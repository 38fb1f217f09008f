package FlatDB

import (
	"context"

	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/db"
	"github.com/nickyhof/FlatDB/ps"
)

type Instance struct {
	Storage ps.Storage
}

func Open(storage ps.Storage) *Instance {
	return &Instance{
		Storage: storage,
	}
}

// OpenDSN opens the storage described by dsn, see ps.Open.
func OpenDSN(ctx context.Context, dsn string) (*Instance, error) {
	storage, err := ps.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return Open(storage), nil
}

func (instance *Instance) Engine(identity core.Identity) *db.Engine {
	return db.NewEngine(instance.Storage, identity)
}

func (instance *Instance) Close() error {
	return ps.Close(instance.Storage)
}
