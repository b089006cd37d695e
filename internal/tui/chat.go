package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// chatPollInterval is how often the open conversation polls for new messages.
const chatPollInterval = 5 * time.Second

type conversationsLoadedMsg struct {
	conversations []domain.Conversation
	err           error
}

type chatMessagesLoadedMsg struct {
	userID   string
	messages []domain.ChatMessage
	err      error
}

type chatSendMsg struct {
	err error
}

type chatPollTickMsg time.Time

func chatPollCmd() tea.Cmd {
	return tea.Tick(chatPollInterval, func(t time.Time) tea.Msg {
		return chatPollTickMsg(t)
	})
}

// cursorBlinkMsg toggles the input cursor on/off.
type cursorBlinkMsg struct{}

func cursorBlinkCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return cursorBlinkMsg{}
	})
}

// -- conversation list (Chat tab) --

type chatListModel struct {
	deps
	conversations []domain.Conversation
	cursor        int
	loading       bool
	err           string
	width         int
	height        int
}

func newChatListModel(d deps) chatListModel {
	return chatListModel{deps: d, loading: true}
}

func (m chatListModel) Init() tea.Cmd {
	c := m.api
	return func() tea.Msg {
		convs, err := c.ListConversations(context.Background())
		return conversationsLoadedMsg{conversations: convs, err: err}
	}
}

func (m chatListModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case conversationsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.conversations = msg.conversations
			m.err = ""
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.conversations)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.conversations) {
				u := m.conversations[m.cursor].User
				return m, navigate(nav.ChatConversation, nav.Params{"userId": u.ID, "userName": u.FullName})
			}
		case "r":
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m chatListModel) editing() bool { return false }

func (m chatListModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("r", "refresh")
}

func (m chatListModel) View() string {
	var b strings.Builder
	b.WriteString(sectionRule(m.prefs.T("messages"), m.width))

	if m.loading {
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
		return b.String()
	}
	if len(m.conversations) == 0 {
		b.WriteString("\n " + dimStyle.Render("no conversations yet · message a seller from a product page") + "\n")
		return b.String()
	}

	for i, conv := range m.conversations {
		cursor := "  "
		name := chatOtherNameStyle.Render(conv.User.FullName)
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(conv.User.FullName)
		}
		preview := truncStr(oneLine(conv.LastMessage), 40)
		if preview == "" {
			preview = "no messages"
		}
		badge := ""
		if conv.UnreadCount > 0 {
			badge = " " + unreadStyle.Render(fmt.Sprintf(" %d ", conv.UnreadCount))
		}
		fmt.Fprintf(&b, " %s%s%s  %s  %s\n",
			cursor,
			name,
			badge,
			dimStyle.Render(preview),
			metaStyle.Render(formatTime(conv.LastMessageTime)),
		)
	}
	return truncateToHeight(b.String(), m.height)
}

// -- single conversation (ChatConversation) --

type conversationModel struct {
	deps
	userID       string
	userName     string
	messages     []domain.ChatMessage // oldest first
	input        string
	inputFocused bool
	cursorOn     bool
	status       string
	width        int
	height       int
}

func newConversationModel(d deps, userID, userName string) conversationModel {
	if userName == "" {
		userName = userID
	}
	return conversationModel{deps: d, userID: userID, userName: userName, inputFocused: true, cursorOn: true}
}

func (m conversationModel) Init() tea.Cmd {
	return tea.Batch(m.loadMessages(), cursorBlinkCmd())
}

func (m conversationModel) loadMessages() tea.Cmd {
	c := m.api
	userID := m.userID
	return func() tea.Msg {
		msgs, err := c.GetChatMessages(context.Background(), userID, 0, pageSize)
		return chatMessagesLoadedMsg{userID: userID, messages: msgs, err: err}
	}
}

func (m conversationModel) sendMessage(body string) tea.Cmd {
	c := m.api
	userID := m.userID
	return func() tea.Msg {
		_, err := c.SendMessage(context.Background(), userID, body)
		return chatSendMsg{err: err}
	}
}

func (m conversationModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case chatMessagesLoadedMsg:
		if msg.userID != m.userID {
			return m, nil
		}
		if msg.err != nil {
			m.status = "error loading messages"
		} else {
			// The API returns newest first.
			m.messages = make([]domain.ChatMessage, len(msg.messages))
			for i, cm := range msg.messages {
				m.messages[len(msg.messages)-1-i] = cm
			}
		}
		return m, chatPollCmd()

	case chatSendMsg:
		if msg.err != nil {
			m.status = "send failed: " + client.Message(msg.err)
			return m, nil
		}
		m.status = ""
		return m, m.loadMessages()

	case chatPollTickMsg:
		return m, m.loadMessages()

	case cursorBlinkMsg:
		if m.inputFocused {
			m.cursorOn = !m.cursorOn
		}
		return m, cursorBlinkCmd()

	case tea.KeyMsg:
		m.cursorOn = true
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m conversationModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	key := msg.String()

	if m.inputFocused {
		switch key {
		case "esc":
			m.inputFocused = false
			return m, nil
		case "enter":
			body := strings.TrimSpace(m.input)
			if body == "" {
				return m, nil
			}
			m.input = ""
			return m, m.sendMessage(body)
		default:
			m.input = editRune(m.input, key)
			return m, nil
		}
	}

	switch key {
	case "enter", "i":
		m.inputFocused = true
		m.cursorOn = true
	case "r":
		return m, m.loadMessages()
	}
	return m, nil
}

func (m conversationModel) editing() bool { return m.inputFocused }

func (m conversationModel) helpKeys() string {
	if m.inputFocused {
		return helpEntry("enter", m.prefs.T("send")) + "  " + helpEntry("esc", "nav")
	}
	return helpEntry("enter", "type") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("esc", "back")
}

func (m conversationModel) View() string {
	var b strings.Builder
	b.WriteString(sectionRule(chatOtherNameStyle.Render(m.userName), m.width))

	chrome := 4 // title + sep + input + status
	if m.status != "" {
		chrome++
	}
	viewportHeight := max(m.height-chrome, 2)

	if len(m.messages) == 0 {
		padLines(viewportHeight-1, &b)
		b.WriteString(" " + dimStyle.Render("no messages yet") + "\n")
	} else {
		var allLines []string
		for _, cm := range m.messages {
			allLines = append(allLines, strings.Split(m.renderMessage(cm), "\n")...)
		}
		start := max(len(allLines)-viewportHeight, 0)
		visible := allLines[start:]
		for i := len(visible); i < viewportHeight; i++ {
			b.WriteByte('\n')
		}
		for _, line := range visible {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	b.WriteString(renderChatInput(m.input, m.prefs.T("typeMessage"), m.inputFocused, m.cursorOn))
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(" " + errorStyle.Render(m.status))
	}
	return b.String()
}

func (m conversationModel) renderMessage(cm domain.ChatMessage) string {
	timePart := metaStyle.Render(fmt.Sprintf("%8s", formatChatTime(cm.CreatedAt)))
	sep := chatSepStyle.Render(" · ")

	isSelf := cm.SenderID == m.me.UserID
	namePart := chatOtherNameStyle.Render(truncStr(m.userName, 12))
	bodyStyle := chatTextStyle
	if isSelf {
		namePart = chatSelfNameStyle.Render("you")
		bodyStyle = chatSelfTextStyle
	}

	bodyWidth := max(m.width-26, 20)
	wrapped := lipgloss.NewStyle().Width(bodyWidth).Render(cm.Message)
	lines := strings.Split(wrapped, "\n")

	result := " " + timePart + "  " + namePart + sep + bodyStyle.Render(lines[0])
	if len(lines) > 1 {
		indent := strings.Repeat(" ", 15)
		for _, line := range lines[1:] {
			result += "\n" + indent + bodyStyle.Render(line)
		}
	}
	return result
}
