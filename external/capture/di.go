package capture

import (
	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (capture.Recorder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewRecorder(cfg), nil
	})
}
