// Package extract pulls structured JSON values out of noisy model text.
//
// Planner completions wrap the JSON plan in prose, markdown fences and
// leftover reasoning fragments. The extractor scans the text for every
// syntactically valid JSON value and returns the largest one.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Error reports that no valid JSON value could be found in the text.
// It carries the offending text so callers can surface it.
type Error struct {
	Text string
}

func (e *Error) Error() string {
	excerpt := e.Text
	if len(excerpt) > 200 {
		excerpt = excerpt[:200] + "..."
	}
	return fmt.Sprintf("no JSON found in response: %q", excerpt)
}

// Option configures a call to Largest.
type Option func(*options)

type options struct {
	repair bool
}

// WithRepair enables a salvage pass: when the strict scan finds no value,
// the text is run through jsonrepair and rescanned before giving up.
// Off by default; the strict contract is what tests and callers rely on.
func WithRepair() Option {
	return func(o *options) { o.repair = true }
}

// Largest returns the single largest syntactically valid JSON value
// embedded in text, where largest means greatest serialized (compact)
// length among all values found scanning left to right. Ties keep the
// first-found value. Returns *Error when nothing decodes.
func Largest(text string, opts ...Option) (json.RawMessage, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if best := scan(text); best != nil {
		return best, nil
	}
	if o.repair {
		if repaired, err := jsonrepair.JSONRepair(text); err == nil {
			if best := scan(repaired); best != nil {
				return best, nil
			}
		}
	}
	return nil, &Error{Text: text}
}

// scan walks the text looking for candidate value starts ('{' or '['),
// strictly decoding at each. A successful decode advances the cursor past
// the consumed span so nested values inside an already counted value are
// never re-counted as separate candidates; a failed decode advances one
// character past the false-positive bracket.
func scan(text string) json.RawMessage {
	var best json.RawMessage
	pos := 0
	for {
		next := nextCandidate(text, pos)
		if next < 0 {
			break
		}
		value, consumed, err := decodeAt(text[next:])
		if err != nil {
			pos = next + 1
			continue
		}
		if len(value) > len(best) {
			best = value
		}
		pos = next + consumed
	}
	return best
}

// nextCandidate returns the lowest index >= pos of '{' or '[', or -1.
func nextCandidate(text string, pos int) int {
	if pos >= len(text) {
		return -1
	}
	obj := strings.IndexByte(text[pos:], '{')
	arr := strings.IndexByte(text[pos:], '[')
	switch {
	case obj < 0 && arr < 0:
		return -1
	case obj < 0:
		return pos + arr
	case arr < 0:
		return pos + obj
	case obj < arr:
		return pos + obj
	default:
		return pos + arr
	}
}

// decodeAt attempts a strict decode of a single JSON value at the start of
// s. On success it returns the compact serialization of the value and the
// number of input bytes consumed.
func decodeAt(s string) (json.RawMessage, int, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, 0, err
	}
	return json.RawMessage(compact.Bytes()), int(dec.InputOffset()), nil
}
