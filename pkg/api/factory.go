// Package api provides factory implementations for dependency injection
package api

import (
	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/storage"
)

// DefaultStoreFactory is the default implementation of StoreFactory
type DefaultStoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() StoreFactory {
	return &DefaultStoreFactory{}
}

// CreateStore opens a pebble-backed band store
func (f *DefaultStoreFactory) CreateStore(config storage.StoreConfig) (*storage.BandStore, error) {
	return storage.NewBandStore(config)
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(store IBandStore, pc *codec.PixelCodec, config ServerConfig) error {
	return StartServer(store, pc, config)
}
