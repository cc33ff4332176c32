// Package tcp implements a Teacher (github.com/lstarinfer/lstar/knowledge)
// that submits words to a live target over a plain TCP socket, one fresh
// connection per word, one round-trip per letter, generalised to an
// arbitrary symbol alphabet via caller-supplied encode/decode functions.
package tcp

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"

	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// Encode renders a letter's symbol set as bytes to send on the wire.
type Encode[I comparable] func(word.Letter[I]) string

// Decode turns a line read from the wire back into an output letter.
type Decode[O comparable] func(string) word.Letter[O]

// NetworkTeacher implements knowledge.Teacher by dialing target once per
// submitted word and exchanging one line per letter.
type NetworkTeacher[I, O comparable] struct {
	addr    string
	timeout time.Duration
	encode  Encode[I]
	decode  Decode[O]
	dialCtx context.Context
	logger  zerolog.Logger
}

// TeacherOption configures a NetworkTeacher at construction.
type TeacherOption[I, O comparable] func(*NetworkTeacher[I, O])

// WithLogger attaches a structured logger.
func WithLogger[I, O comparable](l zerolog.Logger) TeacherOption[I, O] {
	return func(n *NetworkTeacher[I, O]) { n.logger = l }
}

// WithDialContext supplies a base context governing connection setup,
// for callers that need to cancel a learning run that is blocked on a
// slow or unresponsive target.
func WithDialContext[I, O comparable](ctx context.Context) TeacherOption[I, O] {
	return func(n *NetworkTeacher[I, O]) { n.dialCtx = ctx }
}

// NewNetworkTeacher builds a Teacher that dials addr over TCP, encoding
// letters with encode and decoding replies with decode.
func NewNetworkTeacher[I, O comparable](addr string, timeout time.Duration, encode Encode[I], decode Decode[O], opts ...TeacherOption[I, O]) *NetworkTeacher[I, O] {
	n := &NetworkTeacher[I, O]{
		addr:    addr,
		timeout: timeout,
		encode:  encode,
		decode:  decode,
		dialCtx: context.Background(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewStringNetworkTeacher builds a NetworkTeacher[string, string] using
// a letter's joined symbols as the wire encoding in both directions,
// the common case for line-oriented text protocols.
func NewStringNetworkTeacher(addr string, timeout time.Duration, opts ...TeacherOption[string, string]) *NetworkTeacher[string, string] {
	encode := func(l word.Letter[string]) string { return strings.Join(l.Symbols(), "") }
	decode := func(s string) word.Letter[string] {
		if s == "" {
			return word.EmptyLetter[string]()
		}
		return word.NewLetter(s)
	}
	return NewNetworkTeacher[string, string](addr, timeout, encode, decode, opts...)
}

// StartTarget is a no-op; the connection lifecycle is scoped to a single
// SubmitWord call.
func (n *NetworkTeacher[I, O]) StartTarget() error { return nil }

// StopTarget is a no-op.
func (n *NetworkTeacher[I, O]) StopTarget() error { return nil }

// SubmitWord opens one connection for the whole word and submits each
// letter in turn. A letter whose round trip fails is padded with the
// empty letter rather than aborting the word, so once connected the word
// is returned with the same length as input. If the dial itself fails,
// SubmitWord returns an empty word and the dial error.
func (n *NetworkTeacher[I, O]) SubmitWord(input word.Word[I]) (word.Word[O], error) {
	ctx, cancel := context.WithTimeout(n.dialCtx, n.timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", n.addr)
	if err != nil {
		return word.Word[O]{}, err
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	outputs := make([]word.Letter[O], 0, input.Len())
	for _, letter := range input.Letters() {
		out := n.submitLetter(conn, reader, letter)
		outputs = append(outputs, out)
	}
	return word.New(outputs...), nil
}

func (n *NetworkTeacher[I, O]) submitLetter(conn net.Conn, reader *bufio.Reader, letter word.Letter[I]) word.Letter[O] {
	n.logger.Debug().Str("letter", letter.String()).Msg("teacher/tcp: submitting letter")

	if err := conn.SetDeadline(time.Now().Add(n.timeout)); err != nil {
		n.logger.Error().Err(err).Msg("teacher/tcp: setting deadline failed")
		return word.EmptyLetter[O]()
	}
	if _, err := conn.Write([]byte(n.encode(letter) + "\n")); err != nil {
		n.logger.Error().Err(err).Msg("teacher/tcp: write failed")
		return word.EmptyLetter[O]()
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		n.logger.Error().Err(err).Msg("teacher/tcp: read failed")
		return word.EmptyLetter[O]()
	}
	return n.decode(strings.TrimRight(line, "\r\n"))
}
