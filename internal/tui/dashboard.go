package tui

import (
	"context"
	"strings"

	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/Veraticus/foco-financeiro/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Texts of the dashboard.
const (
	MsgLoading           = "Carregando..."
	MsgRefreshing        = "Atualizando..."
	MsgNoCategorias      = "Nenhuma categoria encontrada."
	MsgNoLancamentos     = "Nenhum lançamento encontrado."
	MsgSelectPlaceholder = "Selecione uma categoria"
	MsgDismiss           = "Pressione qualquer tecla para continuar."
)

// Notification titles.
const (
	TitleLoadFailed       = "Erro ao carregar dados"
	TitleCategoriaFailed  = "Erro ao adicionar categoria"
	TitleLancamentoFailed = "Erro ao adicionar lançamento"
	TitleLogoutFailed     = "Erro ao sair"
)

type dashboardField int

const (
	fieldNomeCategoria dashboardField = iota
	fieldDescricao
	fieldValor
	fieldTipo
	fieldCategoria
	dashboardFieldCount
)

// notification is a blocking message dismissed by any key.
type notification struct {
	title   string
	message string
}

// dashboardModel renders the forms and lists and drives the sync cycle.
type dashboardModel struct {
	ctx        context.Context
	session    Session
	syncer     Syncer
	theme      themes.Theme
	keymap     KeyMap
	dash       *engine.Dashboard
	notice     *notification
	nome       textinput.Model
	descricao  textinput.Model
	valor      textinput.Model
	spinner    spinner.Model
	focus      dashboardField
	generation int
	submitting bool
	loaded     bool
}

func newDashboardModel(ctx context.Context, s Session, syncer Syncer, theme themes.Theme, keymap KeyMap, generation int) dashboardModel {
	m := dashboardModel{
		ctx:        ctx,
		session:    s,
		syncer:     syncer,
		theme:      theme,
		keymap:     keymap,
		dash:       engine.NewDashboard(),
		nome:       newInput("Nome da Categoria", theme),
		descricao:  newInput("Descrição", theme),
		valor:      newInput("Valor", theme),
		spinner:    newSpinner(theme),
		generation: generation,
	}
	m.valor.CharLimit = 16
	m.setFocus(fieldNomeCategoria)
	return m
}

// start begins the first sync cycle of this mount.
func (m *dashboardModel) start() tea.Cmd {
	return m.refetch()
}

func (m *dashboardModel) refetch() tea.Cmd {
	m.dash.Begin()
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.syncer, m.generation))
}

func (m *dashboardModel) setFocus(field dashboardField) {
	m.focus = (field + dashboardFieldCount) % dashboardFieldCount
	inputs := map[dashboardField]*textinput.Model{
		fieldNomeCategoria: &m.nome,
		fieldDescricao:     &m.descricao,
		fieldValor:         &m.valor,
	}
	for f, in := range inputs {
		if f == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *dashboardModel) focusedInput() *textinput.Model {
	switch m.focus {
	case fieldNomeCategoria:
		return &m.nome
	case fieldDescricao:
		return &m.descricao
	case fieldValor:
		return &m.valor
	default:
		return nil
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.dash.Resolve(msg.snapshot, msg.err)
		m.loaded = true
		if msg.err != nil {
			return m, m.fail(TitleLoadFailed, msg.err)
		}
		return m, nil

	case categoriaCreatedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			return m, m.fail(TitleCategoriaFailed, msg.err)
		}
		m.dash.CategoriaCreated()
		m.nome.SetValue("")
		return m, m.refetch()

	case lancamentoCreatedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			return m, m.fail(TitleLancamentoFailed, msg.err)
		}
		m.dash.LancamentoCreated()
		m.descricao.SetValue("")
		m.valor.SetValue("")
		return m, m.refetch()

	case logoutResultMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			m.notice = &notification{title: TitleLogoutFailed, message: engine.Message(msg.err)}
			return m, nil
		}
		return m, sessionChanged

	case spinner.TickMsg:
		if !m.dash.Loading() && !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.notice != nil {
			m.notice = nil
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// fail shows err and, when the engine ended the session, asks the router
// to re-evaluate.
func (m *dashboardModel) fail(title string, err error) tea.Cmd {
	m.notice = &notification{title: title, message: engine.Message(err)}
	if !m.session.IsAuthenticated() {
		return sessionChanged
	}
	return nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Logout):
		return m, logoutCmd(m.ctx, m.session, m.generation)

	case key.Matches(msg, m.keymap.Refresh):
		if m.dash.Loading() {
			return m, nil
		}
		return m, m.refetch()

	case key.Matches(msg, m.keymap.NextField):
		m.setFocus(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keymap.PrevField):
		m.setFocus(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		return m.submit()

	case key.Matches(msg, m.keymap.Left, m.keymap.Right):
		delta := 1
		if key.Matches(msg, m.keymap.Left) {
			delta = -1
		}
		switch m.focus {
		case fieldTipo:
			m.dash.CycleTipo()
			return m, nil
		case fieldCategoria:
			m.dash.CycleCategoria(delta)
			return m, nil
		}
	}

	in := m.focusedInput()
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m dashboardModel) submit() (dashboardModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true

	if m.focus == fieldNomeCategoria {
		m.dash.Categoria.Nome = m.nome.Value()
		return m, addCategoriaCmd(m.ctx, m.syncer, m.generation, m.dash.Categoria)
	}

	m.dash.Lancamento.Descricao = m.descricao.Value()
	m.dash.Lancamento.Valor = m.valor.Value()
	return m, addLancamentoCmd(m.ctx, m.syncer, m.generation, m.dash.Lancamento)
}

func (m dashboardModel) View(width int) string {
	if m.notice != nil {
		return renderNotification(m.theme, m.notice.title, m.notice.message)
	}
	if m.dash.Loading() && !m.loaded {
		return m.spinner.View() + " " + m.theme.Normal.Render(MsgLoading)
	}

	header := m.theme.Title.Render("Painel Foco Financeiro")
	status := m.theme.Help.Render("Sair (Ctrl+O)")
	if m.dash.Loading() || m.submitting {
		status = m.spinner.View() + " " + m.theme.Italic.Render(MsgRefreshing) + "  " + status
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, header, "   ", status)

	cardWidth := 44
	forms := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Card.Width(cardWidth).Render(m.categoriaForm()),
		m.theme.Card.Width(cardWidth).Render(m.lancamentoForm()),
	)
	lists := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Card.Width(cardWidth).Render(m.categoriaList()),
		m.theme.Card.Width(cardWidth).Render(m.lancamentoList(cardWidth-4)),
	)

	var body string
	if width >= 2*(cardWidth+6) {
		body = lipgloss.JoinHorizontal(lipgloss.Top, forms, "  ", lists)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, forms, lists)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, body)
}

func (m dashboardModel) categoriaForm() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render("Adicionar Categoria"),
		renderInput(m.theme, m.nome, m.focus == fieldNomeCategoria),
		m.theme.Button.Render("Adicionar"),
	)
}

func (m dashboardModel) lancamentoForm() string {
	categoria := MsgSelectPlaceholder
	if c, ok := m.dash.SelectedCategoria(); ok {
		categoria = c.Nome
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render("Adicionar Lançamento"),
		renderInput(m.theme, m.descricao, m.focus == fieldDescricao),
		renderInput(m.theme, m.valor, m.focus == fieldValor),
		renderSelector(m.theme, "Tipo", m.dash.Lancamento.Tipo.Label(), m.focus == fieldTipo),
		renderSelector(m.theme, "Categoria", categoria, m.focus == fieldCategoria),
		m.theme.Button.Render("Adicionar"),
	)
}

func (m dashboardModel) categoriaList() string {
	rows := []string{m.theme.Subtitle.Render("Suas Categorias")}
	if len(m.dash.Categorias) == 0 {
		rows = append(rows, m.theme.Italic.Render(MsgNoCategorias))
	}
	for _, c := range m.dash.Categorias {
		rows = append(rows, m.theme.ListItem.Render(c.Nome))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m dashboardModel) lancamentoList(width int) string {
	rows := []string{m.theme.Subtitle.Render("Últimos Lançamentos")}
	if len(m.dash.Lancamentos) == 0 {
		rows = append(rows, m.theme.Italic.Render(MsgNoLancamentos))
	}
	for _, l := range m.dash.Lancamentos {
		rows = append(rows, m.renderLancamento(l, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m dashboardModel) renderLancamento(l model.Lancamento, width int) string {
	amountStyle := m.theme.Income
	if l.Tipo == model.TipoCusto {
		amountStyle = m.theme.Expense
	}
	amount := amountStyle.Render(l.FormatValor())

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(l.Descricao),
		m.theme.Help.Render(l.Categoria.Nome+" - "+l.Data.Display()),
	)

	gap := width - lipgloss.Width(left) - lipgloss.Width(amount)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), amount)
}
