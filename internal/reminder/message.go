package reminder

import (
	"fmt"
	"strings"

	"github.com/goalpulse/goalpulse/internal/model"
)

// BriefingMessage lists every goal with its frequency.
func BriefingMessage(name string, goals []*model.Goal) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("☀️ Good morning %s! Here's what you have today:\n\n", name))
	for i, g := range goals {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)", g.Title, cadence(g)))
	}
	sb.WriteString("\n\nYou've got this! 💪")
	return sb.String()
}

// ReminderMessage lists goal titles, with singular copy for exactly one goal.
func ReminderMessage(appName, name string, goals []*model.Goal) string {
	list := titles(goals)
	if len(goals) == 1 {
		return fmt.Sprintf("Hey %s! Just a reminder about your goal:\n\n%s\n\nMark it complete in %s!", name, list, appName)
	}
	return fmt.Sprintf("Hey %s! You have %d goals to complete:\n\n%s\n\nMark them complete in %s!", name, len(goals), list, appName)
}

// TestMessage is sent by the test-SMS endpoint.
func TestMessage(appName, name string) string {
	return fmt.Sprintf("🎯 %s Test SMS\n\nHey %s! If you're seeing this, your notifications are working perfectly! 💪", appName, name)
}

func titles(goals []*model.Goal) string {
	lines := make([]string, 0, len(goals))
	for _, g := range goals {
		lines = append(lines, "• "+g.Title)
	}
	return strings.Join(lines, "\n")
}

// cadence is the frequency of a recurring goal, or its type otherwise.
func cadence(g *model.Goal) string {
	if g.Frequency != "" {
		return g.Frequency
	}
	return g.GoalType
}
