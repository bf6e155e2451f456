package playback

import (
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/hanspeak/hanspeak/internal/playback"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (playback.Player, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewPlayer(cfg), nil
	})
}
