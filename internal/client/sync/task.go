package sync

import (
	"context"
	"fmt"
)

// Task результат фоновой операции.
// Вызывающий решает сам: ждать через Wait или отпустить задачу.
type Task[T any] struct {
	result T
	err    error
	done   chan struct{}
}

// Go запускает fn в отдельной горутине. Паника fn возвращается как ошибка задачи.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		t.result, t.err = fn(ctx)
	}()

	return t
}

// Done закрывается после завершения задачи
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait ждет завершения задачи или отмены ctx.
// Отмена ctx не останавливает саму задачу.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result блокируется до завершения задачи
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.result, t.err
}

// Err возвращает ошибку завершенной задачи, nil пока задача выполняется
func (t *Task[T]) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
