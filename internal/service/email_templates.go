package service

import (
	"fmt"
	"strconv"

	"github.com/templui/goalpace/internal/model"
)

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Create your first goal and start logging progress:
%s

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

func goalCompletedEmailTemplate(name string, goal *model.Goal, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("You reached your goal: %s", goal.Name)
	body := fmt.Sprintf(`Hi %s,

Congratulations! You reached %s %s on "%s".

See the full history:
%s

Best,
The %s Team`, name, formatAmount(goal.Target), goal.Unit, goal.Name, goalURL, appName)

	return subject, body
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
