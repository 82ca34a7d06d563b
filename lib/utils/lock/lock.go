package lock

import (
	"context"
	"sync"
	"time"
)

// слот на ключ: буферизованный канал емкостью 1
var slots sync.Map

func slot(key string) chan struct{} {
	ch, _ := slots.LoadOrStore(key, make(chan struct{}, 1))
	return ch.(chan struct{})
}

// WithDelay выполняет safeCode под блокировкой ключа в пределах процесса.
// success=false, если за время ожидания ключ не освободился.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	ch := slot(key)
	select {
	case ch <- struct{}{}:
	default:
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case ch <- struct{}{}:
		case <-timer.C:
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	defer func() { <-ch }()
	return true, safeCode()
}
