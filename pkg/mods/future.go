package mods

import (
	"fmt"
	"sync"
)

// Step is what a link resolves to: the value downstream links observe and
// whether they should run at all.
type Step[T any] struct {
	Config   ExportedConfigWithProps[T]
	Continue bool
}

// Future is the result of a link, resolved either immediately or later
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	step Step[T]
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(step Step[T], err error) {
	f.once.Do(func() {
		f.step = step
		f.err = err
		close(f.done)
	})
}

func resolved[T any](step Step[T], err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(step, err)
	return f
}

// Continue resolves to cfg and hands control to the next link
func Continue[T any](cfg ExportedConfigWithProps[T]) *Future[T] {
	return resolved(Step[T]{Config: cfg, Continue: true}, nil)
}

// Stop resolves to cfg and ends the chain without error
func Stop[T any](cfg ExportedConfigWithProps[T]) *Future[T] {
	return resolved(Step[T]{Config: cfg, Continue: false}, nil)
}

// Fail resolves to err, aborting the chain
func Fail[T any](err error) *Future[T] {
	if err == nil {
		err = fmt.Errorf("link failed without an error")
	}
	return resolved(Step[T]{}, err)
}

// Async runs fn on its own goroutine and returns a pending future. A panic
// inside fn resolves the future with an error.
func Async[T any](fn func() (Step[T], error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.resolve(Step[T]{}, fmt.Errorf("link panicked: %v", r))
			}
		}()
		step, err := fn()
		f.resolve(step, err)
	}()
	return f
}

// Await blocks until the future is resolved
func (f *Future[T]) Await() (Step[T], error) {
	<-f.done
	return f.step, f.err
}

// Resolved reports whether Await would return without blocking
func (f *Future[T]) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
