//go:build !windows

package detector

import (
	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
)

func nativeBackend(zerolog.Logger) focus.Backend {
	return nil
}
