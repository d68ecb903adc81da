// Package codec implements the fixed-width text wire format spoken between the
// host game server and the extension: call parsing on the way in, response
// envelopes on the way out.
package codec

import (
	"errors"
	"strconv"
	"strings"
)

// Mode identifies the routing mode carried in the first byte of every call.
type Mode byte

const (
	ModeSync  Mode = '0' // run handler inline, answer in the same call
	ModeAsync Mode = '1' // fire and forget
	ModeSave  Mode = '2' // run on a worker, answer later by ticket
	ModeGet   Mode = '5' // poll a ticket
	ModeAdmin Mode = '9' // admin channel
)

// Fixed in-band error messages. The exact bytes are wire-observable and must
// not change.
const (
	MsgInvalidMessage    = "Error Invalid Message"
	MsgMessageTooShort   = "Error Invalid Message, (Message to short)"
	MsgInvalidFormat     = "Error Invalid Format"
	MsgUnknownProtocol   = "Error Unknown Protocol"
	MsgFailedToLoad      = "Failed to Load Protocol"
	MsgUnknownDBType     = "Unknown Database Type"
	MsgNoConfigOption    = "No Config Option Found"
	MsgSessionPoolFailed = "Database Session Pool Failed"
)

// ErrNoSeparator indicates a mode 0/1/2 call without a second colon.
var ErrNoSeparator = errors.New("no protocol separator")

// EnvelopeReserve is the byte allowance kept free in every output buffer for
// the surrounding envelope. Chunked payloads never exceed cap-EnvelopeReserve
// bytes per fetch.
const EnvelopeReserve = 9

// OK is the bare success envelope.
func OK() string {
	return "[1]"
}

// Inline wraps a payload that fits the caller's buffer.
func Inline(payload string) string {
	return "[1, " + payload + "]"
}

// Saved wraps a payload headed for the result store. Unlike Inline there is no
// space after the comma; pollers concatenate chunks and the historical format
// has none.
func Saved(payload string) string {
	return "[1," + payload + "]"
}

// Ticket wraps a request id the caller should poll with mode 5.
func Ticket(id int) string {
	return "[2,\"" + strconv.Itoa(id) + "\"]"
}

// Pending is the not-ready-yet envelope returned to early polls.
func Pending() string {
	return "[3]"
}

// Fail wraps one of the fixed error messages.
func Fail(msg string) string {
	return "[0,\"" + msg + "\"]"
}

// SplitCommand splits the payload of a mode 0/1/2 call into protocol name and
// data. The protocol name runs from index 2 to the first colon at or after it;
// everything past that colon is data and may itself contain colons.
func SplitCommand(input string) (proto, data string, err error) {
	sep := strings.Index(input[2:], ":")
	if sep < 0 {
		return "", "", ErrNoSeparator
	}
	sep += 2
	return input[2:sep], input[sep+1:], nil
}

// ParseTicket extracts the decimal request id of a mode 5 call.
func ParseTicket(input string) (int, error) {
	return strconv.Atoi(input[2:])
}

// Tokenize splits an admin call on every colon. The token count selects the
// admin command.
func Tokenize(input string) []string {
	return strings.Split(input, ":")
}
