//go:build windows

package detector

import (
	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/win32"
)

func nativeBackend(log zerolog.Logger) focus.Backend {
	return win32.NewBackend(log)
}
