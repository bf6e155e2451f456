package backend

import (
	"github.com/hanspeak/hanspeak/internal/backend"
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (backend.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(cfg), nil
	})
}
