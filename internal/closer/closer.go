package closer

import (
	"context"
	"errors"
	"sync"

	"github.com/omrozmn/x-ear-sub010/internal/logger"
)

type closeFn func(ctx context.Context) error

type named struct {
	name string
	fn   closeFn
}

// Closer keeps shutdown callbacks and runs them in LIFO order, so resources
// close in the reverse order of their construction.
type Closer struct {
	mu   sync.Mutex
	fns  []named
	log  *logger.Logger
	done bool
}

var global = &Closer{}

func SetLogger(l *logger.Logger) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.log = l
}

// AddNamed registers a shutdown callback under a human-readable name.
func AddNamed(name string, fn closeFn) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.fns = append(global.fns, named{name: name, fn: fn})
}

// CloseAll runs every registered callback once, newest first. Errors are
// collected, not short-circuited: a failing resource must not keep the
// remaining ones open.
func CloseAll(ctx context.Context) error {
	global.mu.Lock()
	if global.done {
		global.mu.Unlock()
		return nil
	}
	global.done = true
	fns := global.fns
	log := global.log
	global.mu.Unlock()

	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if log != nil {
			log.Info(ctx, "closing "+fns[i].name)
		}
		if err := fns[i].fn(ctx); err != nil {
			errs = append(errs, err)
			if log != nil {
				log.Error(ctx, "failed to close "+fns[i].name, logger.ErrorF(err))
			}
		}
	}

	return errors.Join(errs...)
}
