package status

// NopSink discards every event. Useful in tests that only assert on
// taskstore.Task terminal state and don't care about the event stream.
type NopSink struct{}

func (NopSink) Emit(Event) {}

func (NopSink) Events() <-chan Event {
	ch := make(chan Event)
	close(ch)
	return ch
}

func (NopSink) Close() {}
