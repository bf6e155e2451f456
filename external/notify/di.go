package notify

import (
	"github.com/hanspeak/hanspeak/internal/notify"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (notify.Notifier, error) {
		return NewTerminalNotifier(), nil
	})
}
