// Package tui holds the interactive Bubble Tea menu.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action is what the user picked from the menu.
type Action int

// Menu actions.
const (
	ActionNone Action = iota
	ActionFetch
	ActionShowPrice
	ActionExit
)

// InvalidQueryMessage is shown when the name or symbol prompt is left blank.
const InvalidQueryMessage = "Invalid input. Please enter a valid cryptocurrency name or symbol."

const (
	keyUp    = "up"
	keyDown  = "down"
	keyK     = "k"
	keyJ     = "j"
	keyEnter = "enter"
	keyEsc   = "esc"
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
)

type menuState int

const (
	stateChoosing menuState = iota
	stateQuery
	stateDone
)

type choice struct {
	label  string
	action Action
}

func defaultChoices() []choice {
	return []choice{
		{label: "Fetch and cache cryptocurrency data", action: ActionFetch},
		{label: "Show price of a specific cryptocurrency", action: ActionShowPrice},
		{label: "Exit", action: ActionExit},
	}
}

// Selection is the result of one pass through the menu.
type Selection struct {
	Action Action
	// Query is the name or symbol entered for ActionShowPrice.
	Query string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// MenuModel is the Bubble Tea model for the main menu.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type MenuModel struct {
	choices   []choice
	cursor    int
	state     menuState
	input     textinput.Model
	notice    string
	selection Selection
}

// NewMenuModel returns a menu with the cursor on the first choice. A non-empty
// notice is shown above the choices.
func NewMenuModel(notice string) MenuModel {
	ti := textinput.New()
	ti.Placeholder = "bitcoin or BTC"
	ti.Prompt = "Enter the cryptocurrency name or symbol: "
	ti.CharLimit = 64

	return MenuModel{
		choices: defaultChoices(),
		input:   ti,
		notice:  notice,
	}
}

// Selection returns what the user chose. It is ActionNone until the menu is done.
func (m MenuModel) Selection() Selection {
	return m.selection
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateChoosing:
		return m.handleChoosing(msg)
	case stateQuery:
		return m.handleQuery(msg)
	case stateDone:
		return m, nil
	default:
		return m, nil
	}
}

func (m MenuModel) handleChoosing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := keyMsg.String(); key {
	case keyQuit, keyCtrlC, keyEsc:
		return m.finish(Selection{Action: ActionExit})
	case keyUp, keyK:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case keyDown, keyJ:
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
		return m, nil
	case keyEnter:
		return m.choose(m.cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'0') <= len(m.choices) {
			return m.choose(int(key[0] - '1'))
		}
		m.notice = fmt.Sprintf("Invalid choice. Please enter 1 to %d.", len(m.choices))
		return m, nil
	}
}

func (m MenuModel) choose(idx int) (tea.Model, tea.Cmd) {
	m.cursor = idx
	m.notice = ""
	if m.choices[idx].action != ActionShowPrice {
		return m.finish(Selection{Action: m.choices[idx].action})
	}
	m.state = stateQuery
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

func (m MenuModel) handleQuery(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyCtrlC:
			return m.finish(Selection{Action: ActionExit})
		case keyEsc:
			m.state = stateChoosing
			m.input.Blur()
			m.notice = ""
			return m, nil
		case keyEnter:
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				m.notice = InvalidQueryMessage
				return m, nil
			}
			return m.finish(Selection{Action: ActionShowPrice, Query: query})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m MenuModel) finish(sel Selection) (tea.Model, tea.Cmd) {
	m.selection = sel
	m.state = stateDone
	m.input.Blur()
	return m, tea.Quit
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.state == stateDone {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Menu"))
	b.WriteString("\n\n")

	for i, c := range m.choices {
		line := fmt.Sprintf("%d. %s", i+1, c.label)
		if i == m.cursor && m.state == stateChoosing {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.state == stateQuery {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateQuery {
		b.WriteString(helpTextStyle.Render("enter: show price • esc: back"))
	} else {
		b.WriteString(helpTextStyle.Render("↑/↓ or 1-3: choose • enter: select • q: exit"))
	}
	b.WriteString("\n")
	return b.String()
}

// RunMenu shows the menu on the alternate screen and returns the selection.
func RunMenu(ctx context.Context, in io.Reader, out io.Writer, notice string) (Selection, error) {
	p := tea.NewProgram(NewMenuModel(notice),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return Selection{Action: ActionExit}, nil
		}
		return Selection{}, fmt.Errorf("running menu: %w", err)
	}
	m, ok := final.(MenuModel)
	if !ok {
		return Selection{}, errors.New("menu returned an unexpected model")
	}
	if m.selection.Action == ActionNone {
		return Selection{Action: ActionExit}, nil
	}
	return m.selection, nil
}
