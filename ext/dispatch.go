package ext

import (
	"context"
	"fmt"

	"github.com/lcx/extdb/codec"
	"github.com/lcx/extdb/log"
	"github.com/lcx/extdb/metrics"
	"github.com/lcx/extdb/protocol"
)

// Call is the dispatcher: it parses one host call and routes it by mode.
// outCap is the host's output buffer capacity; payloads too large for it are
// ticketed and paged through mode 5. Other responses are not shortened here;
// CallExtension truncates whatever exceeds the buffer.
func (e *Extension) Call(input string, outCap int) string {
	if e.limiter != nil {
		e.limiter.Take()
	}
	log.Trace().Str("input", input).Msg("extension call")

	if len(input) <= 2 {
		return e.fail(codec.MsgMessageTooShort)
	}
	metrics.CallsTotal.WithLabelValues(string(input[0])).Inc()

	switch codec.Mode(input[0]) {
	case codec.ModeSync:
		return e.syncCall(input, outCap)
	case codec.ModeAsync:
		return e.asyncCall(input)
	case codec.ModeSave:
		return e.saveCall(input)
	case codec.ModeGet:
		return e.getResult(input, outCap)
	case codec.ModeAdmin:
		return e.admin(input)
	default:
		return e.fail(codec.MsgInvalidMessage)
	}
}

func (e *Extension) fail(msg string) string {
	metrics.ErrorsTotal.WithLabelValues(msg).Inc()
	return codec.Fail(msg)
}

// syncCall runs the handler on the host thread. A payload that fits the
// buffer is answered inline; a larger one is stored and ticketed. The stored
// entry skips the pending marker: the caller holds the ticket before anyone
// can poll, so a poll racing the store sees no entry and gets end-of-stream.
func (e *Extension) syncCall(input string, outCap int) string {
	proto, data, err := codec.SplitCommand(input)
	if err != nil {
		return e.fail(codec.MsgInvalidFormat)
	}

	handler, ok := e.registry.Lookup(proto)
	if !ok {
		return e.fail(codec.MsgUnknownProtocol)
	}

	payload, err := e.invoke(handler, data)
	if err != nil {
		log.Error().Err(err).Str("protocol", proto).Msg("sync protocol call failed")
		return e.fail(codec.MsgInvalidMessage)
	}

	if len(payload) <= outCap-codec.EnvelopeReserve {
		return codec.Inline(payload)
	}

	id := e.ids.Allocate()
	e.store.Complete(id, payload)
	metrics.LiveTickets.Inc()
	return codec.Ticket(id)
}

// asyncCall is fire-and-forget: the handler lookup happens on the worker and
// a missing name is tolerated silently.
func (e *Extension) asyncCall(input string) string {
	proto, data, err := codec.SplitCommand(input)
	if err != nil {
		return e.fail(codec.MsgInvalidFormat)
	}

	e.workers.Submit(func() {
		handler, ok := e.registry.Lookup(proto)
		if !ok {
			return
		}
		if _, err := e.invoke(handler, data); err != nil {
			log.Error().Err(err).Str("protocol", proto).Msg("async protocol call failed")
		}
	})
	metrics.QueueDepth.Set(float64(e.workers.QueueLen()))
	return codec.OK()
}

// saveCall allocates a ticket, marks it pending, and queues the work. The
// pending marker is set before the task is submitted so a worker can never
// complete the id ahead of the marker.
func (e *Extension) saveCall(input string) string {
	proto, data, err := codec.SplitCommand(input)
	if err != nil {
		return e.fail(codec.MsgInvalidFormat)
	}

	handler, ok := e.registry.Lookup(proto)
	if !ok {
		return e.fail(codec.MsgUnknownProtocol)
	}

	id := e.ids.Allocate()
	e.store.Begin(id)
	metrics.LiveTickets.Inc()

	if !e.workers.Submit(func() { e.runTask(handler, proto, data, id) }) {
		e.store.Abort(id)
		e.ids.Free(id)
		metrics.LiveTickets.Dec()
		return e.fail(codec.MsgInvalidMessage)
	}
	metrics.QueueDepth.Set(float64(e.workers.QueueLen()))
	return codec.Ticket(id)
}

// runTask executes one ticketed call on a worker. Failures store an empty
// payload so the ticket still drains instead of leaving the id pending
// forever.
func (e *Extension) runTask(handler protocol.Protocol, proto, data string, id int) {
	payload, err := e.invoke(handler, data)
	if err != nil {
		log.Error().Err(err).Str("protocol", proto).Int("id", id).Msg("async protocol call failed")
		payload = ""
	}
	e.store.Complete(id, payload)

	if pool := e.pool.Load(); pool != nil {
		stats := pool.Stats()
		metrics.SessionsInUse.Set(float64(stats.InUse))
		metrics.SessionOverflows.Set(float64(stats.Overflows))
	}
}

// getResult pages one chunk of a ticketed result. Draining the final empty
// chunk frees the id for reuse.
func (e *Extension) getResult(input string, outCap int) string {
	id, err := codec.ParseTicket(input)
	if err != nil {
		return e.fail(codec.MsgInvalidMessage)
	}

	chunk, drained := e.store.Fetch(id, outCap)
	if drained {
		e.ids.Free(id)
		metrics.LiveTickets.Dec()
	}
	return chunk
}

// invoke runs a handler, containing panics so a bad handler body surfaces as
// an in-band error instead of taking the host thread down.
func (e *Extension) invoke(p protocol.Protocol, data string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return p.Call(context.Background(), data)
}
