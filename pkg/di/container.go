// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/eventstore/pkg/api"     //nolint:depguard
	"github.com/ssargent/eventstore/pkg/storage" //nolint:depguard
)

// StorageOpener opens the storage backend selected by opts
type StorageOpener func(opts storage.Options) (storage.KV, error)

// Container holds all the dependencies for the application
type Container struct {
	storageOpener StorageOpener
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		storageOpener: storage.Open,
		serverFactory: api.NewServerFactory(),
	}
}

// GetStorageOpener returns the storage opener
func (c *Container) GetStorageOpener() StorageOpener {
	return c.storageOpener
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetStorageOpener allows overriding the storage opener (for testing)
func (c *Container) SetStorageOpener(opener StorageOpener) {
	c.storageOpener = opener
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
