package grid

// Notifier is a synchronous change event. Handlers run on the goroutine that
// calls Fire, in subscription order.
type Notifier[T any] struct {
	handlers []handler[T]
	nextID   int
}

type handler[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns the function that removes it again.
// Calling the returned function more than once is a no-op.
func (n *Notifier[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	id := n.nextID
	n.nextID++
	n.handlers = append(n.handlers, handler[T]{id: id, fn: fn})
	return func() {
		for i, h := range n.handlers {
			if h.id == id {
				n.handlers = append(n.handlers[:i:i], n.handlers[i+1:]...)
				return
			}
		}
	}
}

// Fire delivers v to every current handler.
func (n *Notifier[T]) Fire(v T) {
	// Handlers may unsubscribe while being called; iterate over a snapshot.
	hs := n.handlers
	for _, h := range hs {
		h.fn(v)
	}
}

// Len returns the number of live subscriptions.
func (n *Notifier[T]) Len() int { return len(n.handlers) }
