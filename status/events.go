package status

import "github.com/ifprun/ifprun/taskstore"

// EmitStart publishes a start(identity, state) event.
func EmitStart(sink Sink, identity taskstore.Identity, state taskstore.Status) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Kind: Start, Identity: identity, State: state})
}

// EmitFinish publishes a finish(identity, result) event.
func EmitFinish(sink Sink, identity taskstore.Identity, result taskstore.Status) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Kind: Finish, Identity: identity, State: result})
}

// EmitSetField publishes a set_field(identity, field, value) event.
func EmitSetField(sink Sink, identity taskstore.Identity, field Field, value string) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Kind: SetField, Identity: identity, Field: field, Value: value})
}

// EmitMessage publishes a message(text, color) diagnostic event.
func EmitMessage(sink Sink, text string, color Color) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Kind: Message, Text: text, Color: color})
}

// EmitDone publishes a done() event marking the end of one orchestration call.
func EmitDone(sink Sink) {
	if sink == nil {
		return
	}
	sink.Emit(Event{Kind: Done})
}
