// Package api provides interfaces for dependency injection
package api

import (
	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/storage"
)

// StoreFactory opens band stores
type StoreFactory interface {
	// CreateStore opens (or creates) the band store described by config
	CreateStore(config storage.StoreConfig) (*storage.BandStore, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer starts the API server and blocks until it stops
	StartServer(store IBandStore, pc *codec.PixelCodec, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
