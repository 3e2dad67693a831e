package heuristics

import (
	"iter"
	"strings"
	"unicode/utf8"

	"combatscore/internal/core/event"

	"golang.org/x/text/unicode/norm"
)

// eventCount, messageCount and numParticipants are counts carried as
// float64 like every score; tables write them as 3.0, not 3
func eventCount(evs iter.Seq[event.Event]) float64 {
	n := 0
	for range evs {
		n++
	}
	return float64(n)
}

func messageCount(evs iter.Seq[event.Event]) float64 {
	n := 0
	for e := range evs {
		if e.Is(event.TypeMessage) {
			n++
		}
	}
	return float64(n)
}

func messageToCommandRatio(evs iter.Seq[event.Event]) float64 {
	var msgs, cmds int
	for e := range evs {
		switch e.Type() {
		case event.TypeMessage:
			msgs++
		case event.TypeCommand:
			cmds++
		}
	}
	if msgs+cmds == 0 {
		return 0
	}
	return float64(msgs) / float64(msgs+cmds)
}

func averageMessageLength(evs iter.Seq[event.Event]) float64 {
	var msgs, runes int
	for e := range evs {
		if !e.Is(event.TypeMessage) {
			continue
		}
		msgs++
		runes += utf8.RuneCountInString(content(e))
	}
	if msgs == 0 {
		return 0
	}
	return float64(runes) / float64(msgs)
}

// avgNumWordsBetweenCommands splits the combat at each command and averages
// message words over the resulting stretches (commands+1 of them)
func avgNumWordsBetweenCommands(evs iter.Seq[event.Event]) float64 {
	var cmds, words int
	seen := false
	for e := range evs {
		seen = true
		switch e.Type() {
		case event.TypeCommand:
			cmds++
		case event.TypeMessage:
			words += len(strings.Fields(content(e)))
		}
	}
	if !seen {
		return 0
	}
	return float64(words) / float64(cmds+1)
}

func numParticipants(evs iter.Seq[event.Event]) float64 {
	authors := map[string]struct{}{}
	for e := range evs {
		if a := e.Str(event.KeyAuthor); a != "" {
			authors[a] = struct{}{}
		}
	}
	return float64(len(authors))
}

// content returns the NFC normalized message text
func content(e event.Event) string {
	return norm.NFC.String(e.Str(event.KeyContent))
}
