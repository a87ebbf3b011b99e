package service

import "fmt"

func welcomeEmailTemplate(name, appName string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to %s", appName)
	body = fmt.Sprintf(`Hi %s,

Welcome to %s! Your account is ready.

Add your first goal and we'll text you a briefing every morning at 8am,
plus a reminder in the evening for anything still open.

You can switch to persistent reminders (9am, 12pm, 3pm and 6pm) from your settings
whenever you want a little more accountability.

The %s Team`, name, appName, appName)
	return subject, body
}
