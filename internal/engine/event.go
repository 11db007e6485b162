package engine

// EventWithArg is a multi-cast event carrying one argument. Listeners run
// in subscription order. It is not safe for concurrent use; register
// listeners before the event can fire.
type EventWithArg[T any] struct {
	listeners []func(T)
}

// AddListener subscribes callback. Nil callbacks are ignored.
func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

func (e *EventWithArg[T]) ListenerCount() int {
	return len(e.listeners)
}
