// Package heuristics holds the closed set of combat scoring functions
package heuristics

import (
	stderrs "errors"
	"iter"
	"slices"

	"combatscore/internal/core/event"
	perr "combatscore/internal/platform/errors"
)

// Heuristic maps one combat's events to a score
// Implementations must be pure and total: no shared state, no panics on odd input
type Heuristic func(iter.Seq[event.Event]) float64

// Name identifies a registered heuristic
type Name string

// Registered heuristics
const (
	EventCount                 Name = "event_count"
	MessageCount               Name = "message_count"
	MessageToCommandRatio      Name = "message_to_command_ratio"
	AverageMessageLength       Name = "average_message_length"
	AvgNumWordsBetweenCommands Name = "avg_num_words_between_commands"
	NumParticipants            Name = "num_participants"
)

// Default is the heuristic used when none is selected
const Default = MessageToCommandRatio

// ErrUnknownHeuristic is returned by Lookup for names outside the registry
var ErrUnknownHeuristic = stderrs.New("unknown heuristic")

// Entry describes one registered heuristic
type Entry struct {
	Name        Name
	Description string
	Fn          Heuristic
}

var registry = map[Name]Entry{
	EventCount: {
		Name: EventCount, Fn: eventCount,
		Description: "number of events in the combat, written as a float (3.0)",
	},
	MessageCount: {
		Name: MessageCount, Fn: messageCount,
		Description: "number of message events, written as a float (3.0)",
	},
	MessageToCommandRatio: {
		Name: MessageToCommandRatio, Fn: messageToCommandRatio,
		Description: "messages / (messages + commands), 0 when neither occurs",
	},
	AverageMessageLength: {
		Name: AverageMessageLength, Fn: averageMessageLength,
		Description: "mean message length in characters",
	},
	AvgNumWordsBetweenCommands: {
		Name: AvgNumWordsBetweenCommands, Fn: avgNumWordsBetweenCommands,
		Description: "mean number of message words per stretch between commands",
	},
	NumParticipants: {
		Name: NumParticipants, Fn: numParticipants,
		Description: "distinct authors across all events, written as a float (3.0)",
	},
}

// Lookup returns the heuristic registered under name
func Lookup(name string) (Heuristic, error) {
	e, err := Describe(name)
	if err != nil {
		return nil, err
	}
	return e.Fn, nil
}

// Describe returns the registry entry for name
func Describe(name string) (Entry, error) {
	e, ok := registry[Name(name)]
	if !ok {
		return Entry{}, perr.Wrapf(ErrUnknownHeuristic, perr.ErrorCodeNotFound, "heuristic %q", name)
	}
	return e, nil
}

// Valid reports whether name is registered
func Valid(name string) bool {
	_, ok := registry[Name(name)]
	return ok
}

// Names returns registered names sorted
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, string(n))
	}
	slices.Sort(out)
	return out
}

// Entries returns registry entries sorted by name
func Entries() []Entry {
	out := make([]Entry, 0, len(registry))
	for _, n := range Names() {
		out = append(out, registry[Name(n)])
	}
	return out
}
