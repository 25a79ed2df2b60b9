// Package container assembles the application object graph.
package container

import (
	"lmstudio-proxy/internal/app"
	"lmstudio-proxy/internal/config"
	"lmstudio-proxy/internal/handler"
	"lmstudio-proxy/internal/httpclient"
	"lmstudio-proxy/internal/proxy"
	"lmstudio-proxy/internal/router"

	"go.uber.org/dig"
)

// BuildContainer registers every constructor and returns the DI container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []interface{}{
		config.NewManager,
		httpclient.NewHTTPClientManager,
		handler.NewServer,
		proxy.NewProxyServer,
		router.NewRouter,
		app.NewApp,
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	return container, nil
}
