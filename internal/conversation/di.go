package conversation

import (
	"github.com/hanspeak/hanspeak/internal/backend"
	"github.com/hanspeak/hanspeak/internal/capture"
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/hanspeak/hanspeak/internal/notify"
	"github.com/hanspeak/hanspeak/internal/playback"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		api := do.MustInvoke[backend.Client](i)
		rec := do.MustInvoke[capture.Recorder](i)
		player := do.MustInvoke[playback.Player](i)
		notifier := do.MustInvoke[notify.Notifier](i)
		return NewManager(cfg, api, rec, player, notifier), nil
	})
}
