package watcher

import "fmt"

type sinkPanic struct {
	value any
}

func (p *sinkPanic) Error() string {
	return fmt.Sprintf("sink panicked: %v", p.value)
}
