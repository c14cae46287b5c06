// Package render formats game state as plain text for the terminal client.
package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mvg01/liargame/internal/models"
)

// Line formats one conversation message
func Line(m models.Message) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(m.Speaker)
	b.WriteString("] ")
	b.WriteString(m.Content)
	return b.String()
}

// Transcript formats the whole conversation, one message per line
func Transcript(history []models.Message) string {
	if len(history) == 0 {
		return "(no messages yet)\n"
	}
	var b strings.Builder
	for i, m := range history {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(Line(m))
		b.WriteString("\n")
	}
	return b.String()
}

// Briefing tells the human what they know at the start of a game
func Briefing(st *models.Status) string {
	var b strings.Builder
	b.WriteString("Category: ")
	b.WriteString(st.Category)
	b.WriteString("\nKeyword:  ")
	b.WriteString(st.Keyword)
	b.WriteString("\nOrder:    ")
	b.WriteString(strings.Join(st.TurnOrder, " -> "))
	b.WriteString("\nOne of ")
	b.WriteString(strings.Join(models.AgentIDs(), ", "))
	b.WriteString(" does not know the keyword. Find them.\n")
	return b.String()
}

// Prompt shows whose turn it is
func Prompt(st *models.Status) string {
	var b strings.Builder
	b.WriteString("round ")
	b.WriteString(strconv.Itoa(st.Round))
	b.WriteString(", turn ")
	b.WriteString(strconv.Itoa(st.CurrentTurnIndex + 1))
	b.WriteString(": ")
	b.WriteString(st.CurrentSpeaker)
	return b.String()
}

// Tally formats vote counts, highest first then by name
func Tally(tally map[string]int) string {
	ids := make([]string, 0, len(tally))
	for id := range tally {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if tally[ids[i]] == tally[ids[j]] {
			return ids[i] < ids[j]
		}
		return tally[ids[i]] > tally[ids[j]]
	})

	var b strings.Builder
	for _, id := range ids {
		b.WriteString("  ")
		b.WriteString(id)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(tally[id]))
		b.WriteString("\n")
	}
	return b.String()
}

// VoteSummary describes a vote result
func VoteSummary(v *models.VoteResult) string {
	var b strings.Builder
	b.WriteString("Votes:\n")
	for _, voter := range models.ParticipantIDs() {
		target, ok := v.Votes[voter]
		if !ok {
			continue
		}
		b.WriteString("  ")
		b.WriteString(voter)
		b.WriteString(" -> ")
		b.WriteString(target)
		for _, fb := range v.Fallbacks {
			if fb == voter {
				b.WriteString(" (random)")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("Tally:\n")
	b.WriteString(Tally(v.Tally))
	b.WriteString("Most voted: ")
	b.WriteString(strings.Join(v.MostVoted, ", "))
	b.WriteString("\n")

	if v.LiarCaught {
		b.WriteString("The impostor ")
		b.WriteString(v.ImpostorID)
		b.WriteString(" was caught! They get one guess at the keyword.\n")
	} else {
		b.WriteString("The impostor ")
		b.WriteString(v.ImpostorID)
		b.WriteString(" escaped. The impostor wins.\n")
	}
	return b.String()
}

// GuessSummary describes the impostor's last-chance guess
func GuessSummary(g *models.GuessResult) string {
	var b strings.Builder
	b.WriteString("Guess: ")
	if g.Guess == "" {
		b.WriteString("(none)")
	} else {
		b.WriteString(g.Guess)
	}
	b.WriteString("\nKeyword: ")
	b.WriteString(g.Keyword)
	b.WriteString("\n")
	if g.Correct {
		b.WriteString("Correct! The impostor wins.\n")
	} else {
		b.WriteString("Wrong! The civilians win.\n")
	}
	return b.String()
}
