package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// pageSize is how many products, reviews or messages a screen fetches at once.
const pageSize = 50

// maxInputLen caps every text field (chat, reviews, forms) in runes.
const maxInputLen = 2000

// editRune applies one keystroke to an inline text field: backspace
// removes the last rune, a single printable rune is appended, and
// anything else (enter, arrows, ctrl chords) leaves text unchanged.
func editRune(text, key string) string {
	switch key {
	case "backspace", "ctrl+h":
		_, size := utf8.DecodeLastRuneInString(text)
		return text[:len(text)-size]
	case "space":
		key = " "
	}
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) || !unicode.IsPrint(r) {
		return text
	}
	if utf8.RuneCountInString(text) >= maxInputLen {
		return text
	}
	return text + key
}

// truncateToHeight keeps at most maxLines newline-terminated lines.
// maxLines <= 0 disables the limit.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	end := 0
	for range maxLines {
		i := strings.IndexByte(s[end:], '\n')
		if i < 0 {
			return s
		}
		end += i + 1
	}
	return s[:end]
}

// maskSecret hides a password while keeping its length visible.
func maskSecret(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}

// renderChatInput renders the compose line under a conversation.
func renderChatInput(input, placeholder string, focused, cursorOn bool) string {
	const gutter = "          " // lines up with the timestamp column

	prefix := gutter + chatSelfNameStyle.Render("you") + chatSepStyle.Render(" · ")
	switch {
	case !focused && input == "":
		return prefix + inputPlaceholderStyle.Render(placeholder)
	case !focused:
		return prefix + dimStyle.Render(input)
	}

	cursor := " "
	if cursorOn {
		cursor = accentStyle.Render("█")
	}
	if input == "" {
		return prefix + cursor
	}
	return prefix + chatSelfTextStyle.Render(input) + cursor
}
