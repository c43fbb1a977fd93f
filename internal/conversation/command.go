package conversation

import (
	"encoding/json"
	"strings"
)

// ActionCreateBooking is the action tag of a completed booking request.
const ActionCreateBooking = "create_booking"

// Command is the result of scanning a model reply. It is either NoCommand or
// CreateBookingCommand.
type Command interface {
	isCommand()
}

// NoCommand means the reply is plain prose. Malformed is set when something
// carrying the booking tag was present but could not be parsed.
type NoCommand struct {
	Malformed bool
}

// CreateBookingCommand carries the untyped booking candidate.
type CreateBookingCommand struct {
	Payload map[string]any
}

func (NoCommand) isCommand()            {}
func (CreateBookingCommand) isCommand() {}

type commandEnvelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// ParseCommand looks for a JSON object {"action":"create_booking","data":{...}}
// anywhere in text. Every '{' is tried as the start of an object, so code
// fences and surrounding prose are tolerated.
func ParseCommand(text string) Command {
	tagged := strings.Contains(text, ActionCreateBooking)
	if !tagged {
		return NoCommand{}
	}

	for i := strings.IndexByte(text, '{'); i >= 0; {
		if payload, ok := decodeCommandAt(text[i:]); ok {
			return CreateBookingCommand{Payload: payload}
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return NoCommand{Malformed: true}
}

func decodeCommandAt(s string) (map[string]any, bool) {
	var env commandEnvelope
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&env); err != nil {
		return nil, false
	}
	if env.Action != ActionCreateBooking || len(env.Data) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(string(env.Data)))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil || data == nil {
		return nil, false
	}
	// Models sometimes emit dni or telefono as bare numbers.
	for k, v := range data {
		if n, ok := v.(json.Number); ok {
			data[k] = n.String()
		}
	}
	return data, true
}
