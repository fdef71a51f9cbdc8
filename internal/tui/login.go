package tui

import (
	"context"
	"strings"

	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Texts of the login screen.
const (
	MsgRegistered       = "Registro bem-sucedido! Por favor, faça o login."
	MsgCredentialsEmpty = "Informe usuário e senha."
	MsgProcessing       = "Processando..."
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

const (
	fieldUsername = iota
	fieldPassword
	loginFieldCount
)

// loginModel collects credentials for login or registration.
type loginModel struct {
	ctx        context.Context
	session    Session
	theme      themes.Theme
	keymap     KeyMap
	inputs     [loginFieldCount]textinput.Model
	spinner    spinner.Model
	err        string
	notice     string
	mode       loginMode
	focus      int
	generation int
	busy       bool
}

func newLoginModel(ctx context.Context, s Session, theme themes.Theme, keymap KeyMap, generation int) loginModel {
	username := newInput("Usuário", theme)
	password := newInput("Senha", theme)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := loginModel{
		ctx:        ctx,
		session:    s,
		theme:      theme,
		keymap:     keymap,
		inputs:     [loginFieldCount]textinput.Model{username, password},
		spinner:    newSpinner(theme),
		generation: generation,
	}
	m.setFocus(fieldUsername)
	return m
}

func (m *loginModel) setFocus(field int) {
	m.focus = (field + loginFieldCount) % loginFieldCount
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.err = engine.Message(msg.err)
			return m, nil
		}
		return m, sessionChanged

	case registerResultMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.err = engine.Message(msg.err)
			return m, nil
		}
		m.mode = modeLogin
		m.notice = MsgRegistered
		m.inputs[fieldPassword].SetValue("")
		m.setFocus(fieldPassword)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.NextField):
		m.setFocus(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keymap.PrevField):
		m.setFocus(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keymap.ToggleMode):
		if m.mode == modeLogin {
			m.mode = modeRegister
		} else {
			m.mode = modeLogin
		}
		m.err = ""
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()

	m.err = ""
	m.notice = ""
	if username == "" || password == "" {
		m.err = MsgCredentialsEmpty
		return m, nil
	}

	m.busy = true
	var call tea.Cmd
	if m.mode == modeLogin {
		call = loginCmd(m.ctx, m.session, m.generation, username, password)
	} else {
		call = registerCmd(m.ctx, m.session, m.generation, username, password)
	}
	return m, tea.Batch(m.spinner.Tick, call)
}

func (m loginModel) View() string {
	title := "Login no Foco Financeiro"
	button := "Entrar"
	prompt := "Não tem uma conta? Registre-se (Ctrl+T)"
	if m.mode == modeRegister {
		title = "Crie sua Conta"
		button = "Registrar"
		prompt = "Já tem uma conta? Faça Login (Ctrl+T)"
	}

	rows := []string{m.theme.Title.Render(title)}
	for i := range m.inputs {
		rows = append(rows, renderInput(m.theme, m.inputs[i], i == m.focus))
	}

	if m.err != "" {
		rows = append(rows, m.theme.StatusError.Render(m.err))
	}
	if m.notice != "" {
		rows = append(rows, m.theme.StatusOK.Render(m.notice))
	}

	if m.busy {
		rows = append(rows, m.spinner.View()+" "+m.theme.Italic.Render(MsgProcessing))
	} else {
		rows = append(rows, m.theme.Button.Render(button))
	}
	rows = append(rows, "", m.theme.Help.Render(prompt))

	return m.theme.Card.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
