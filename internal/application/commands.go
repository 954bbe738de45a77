package application

import (
	"strings"

	"github.com/bnema/intakebot/internal/domain"
)

const (
	CommandStart        = "/start"
	CommandCancel       = "/cancel"
	CommandTestReminder = "/test_reminder"
	CommandStats        = "/stats"

	ButtonConfirm         = "Подтвердить"
	ButtonRestart         = "Начать заново"
	ButtonChangeQualifier = "Изменить род"
)

type Intent string

const (
	IntentNone            Intent = ""
	IntentConfirm         Intent = "confirm"
	IntentRestart         Intent = "restart"
	IntentChangeQualifier Intent = "change_qualifier"
)

func parseIntent(input string) Intent {
	switch input {
	case ButtonConfirm:
		return IntentConfirm
	case ButtonRestart:
		return IntentRestart
	case ButtonChangeQualifier:
		return IntentChangeQualifier
	default:
		return IntentNone
	}
}

// parseCommand returns the bot command in input, dropping a "@botname" suffix.
func parseCommand(input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	command := strings.Fields(input)[0]
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}

	return strings.ToLower(command), true
}

func confirmationButtons() []string {
	return []string{ButtonConfirm, ButtonRestart, ButtonChangeQualifier}
}

func qualifierButtons() []string {
	qualifiers := domain.Qualifiers()
	buttons := make([]string, 0, len(qualifiers))
	for _, qualifier := range qualifiers {
		buttons = append(buttons, qualifier.Token())
	}
	return buttons
}

// Reply is one message to send back to the user. Nil Buttons removes the keyboard.
type Reply struct {
	Text    string
	Buttons []string
}
