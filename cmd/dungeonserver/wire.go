//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cory-johannsen/mazmorra/internal/config"
)

func initializeApp(cfg config.Config) (*app, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}
