package entryservice

import (
	"log/slog"

	httpadapter "patchbay/contexts/catalog/entry-service/adapters/http"
	"patchbay/contexts/catalog/entry-service/adapters/memory"
	"patchbay/contexts/catalog/entry-service/application/commands"
	"patchbay/contexts/catalog/entry-service/application/queries"
	"patchbay/contexts/catalog/entry-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Entries  ports.EntryRepository
	Tags     ports.TagRepository
	Authors  ports.AuthorRepository
	Licenses ports.LicenseRepository
	Assets   ports.AssetRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	entryUseCase := commands.EntryUseCase{
		Entries:  deps.Entries,
		Tags:     deps.Tags,
		Authors:  deps.Authors,
		Licenses: deps.Licenses,
		Assets:   deps.Assets,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	catalogUseCase := queries.CatalogUseCase{
		Entries:  deps.Entries,
		Tags:     deps.Tags,
		Authors:  deps.Authors,
		Licenses: deps.Licenses,
		Assets:   deps.Assets,
	}
	return Module{
		Handler: httpadapter.Handler{
			Writes:  entryUseCase,
			Catalog: catalogUseCase,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to a shared memory store seeded with the
// default license table.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Entries:  store,
		Tags:     store,
		Authors:  store,
		Licenses: store,
		Assets:   store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
