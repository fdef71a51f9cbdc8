// Package cli provides styled terminal output for the foco commands.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#2E86AB")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#3BB273") // Green
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#F4B942") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#E15554") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#7DCFB6")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	CoinIcon    = "💰"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the app icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(CoinIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + ": ")
}

// FormatValor colors a lançamento amount by its tipo.
func FormatValor(l model.Lancamento) string {
	if l.Tipo == model.TipoCusto {
		return ErrorStyle.Render(l.FormatValor())
	}
	return SuccessStyle.Render(l.FormatValor())
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// WriteCategorias prints categorias as a table.
func WriteCategorias(w io.Writer, categorias []model.Categoria) error {
	if len(categorias) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("Nenhuma categoria encontrada."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, TableHeaderStyle.Render("ID")+"\t"+TableHeaderStyle.Render("NOME"))
	for _, c := range categorias {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Nome)
	}
	return tw.Flush()
}

// WriteLancamentos prints lançamentos as a table in the given order.
func WriteLancamentos(w io.Writer, lancamentos []model.Lancamento) error {
	if len(lancamentos) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("Nenhum lançamento encontrado."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, TableHeaderStyle.Render("DATA")+"\t"+
		TableHeaderStyle.Render("DESCRIÇÃO")+"\t"+
		TableHeaderStyle.Render("CATEGORIA")+"\t"+
		TableHeaderStyle.Render("VALOR"))
	for _, l := range lancamentos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Data.Display(), l.Descricao, l.Categoria.Nome, FormatValor(l))
	}
	return tw.Flush()
}
