package ui

import tea "github.com/charmbracelet/bubbletea"

// isKey matches msg against keys in bubbletea's String form, e.g. "ctrl+u".
func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return isKey(msg, "up", "ctrl+p")
}

func isDown(msg tea.KeyMsg) bool {
	return isKey(msg, "down", "ctrl+n")
}

func isLeft(msg tea.KeyMsg) bool {
	return isKey(msg, "left", "h")
}

func isRight(msg tea.KeyMsg) bool {
	return isKey(msg, "right", "l")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isFocusSwitch(msg tea.KeyMsg) bool {
	return isKey(msg, "tab", "shift+tab")
}

func isBackspace(msg tea.KeyMsg) bool {
	return isKey(msg, "backspace", "ctrl+h")
}

func isClearLine(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+u", "cmd+backspace")
}

func isRemoveChip(msg tea.KeyMsg) bool {
	return isKey(msg, "delete", "backspace", "d", "x")
}

func isEditChip(msg tea.KeyMsg) bool {
	return isKey(msg, "e", "f2")
}

// typedText returns the text a key press inserts, if any.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste || len(msg.Runes) > 0 {
			return string(msg.Runes), true
		}
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}
