package engine

import (
	"errors"
	"strings"

	"github.com/Veraticus/foco-financeiro/internal/api"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/shopspring/decimal"
)

// Validation messages shown to the user.
const (
	MsgSelectCategoria  = "Por favor, crie e selecione uma categoria."
	MsgNomeRequired     = "Informe o nome da categoria."
	MsgDescricaoMissing = "Informe a descrição do lançamento."
	MsgValorInvalid     = "Informe um valor válido."
)

// ValidationError is a form error detected before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Message returns the text meant for the user: the innermost
// ValidationError or RequestError message, else err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}

// CategoriaDraft is the add-categoria form state.
type CategoriaDraft struct {
	Nome string
}

// Validate returns the trimmed nome.
func (d CategoriaDraft) Validate() (string, error) {
	nome := strings.TrimSpace(d.Nome)
	if nome == "" {
		return "", &ValidationError{Field: "nome", Message: MsgNomeRequired}
	}
	return nome, nil
}

// LancamentoDraft is the add-lançamento form state. CategoriaID is zero when
// no categoria is selected.
type LancamentoDraft struct {
	Descricao   string
	Valor       string
	Tipo        model.Tipo
	CategoriaID int
}

// NewLancamentoDraft returns an empty draft of type CUSTO.
func NewLancamentoDraft() LancamentoDraft {
	return LancamentoDraft{Tipo: model.TipoCusto}
}

// Build validates the draft and returns the payload dated data.
func (d LancamentoDraft) Build(data model.Date) (model.NovoLancamento, error) {
	if d.CategoriaID == 0 {
		return model.NovoLancamento{}, &ValidationError{Field: "categoria", Message: MsgSelectCategoria}
	}

	descricao := strings.TrimSpace(d.Descricao)
	if descricao == "" {
		return model.NovoLancamento{}, &ValidationError{Field: "descricao", Message: MsgDescricaoMissing}
	}

	raw := strings.ReplaceAll(strings.TrimSpace(d.Valor), ",", ".")
	if raw == "" {
		return model.NovoLancamento{}, &ValidationError{Field: "valor", Message: MsgValorInvalid}
	}
	valor, err := decimal.NewFromString(raw)
	if err != nil {
		return model.NovoLancamento{}, &ValidationError{Field: "valor", Message: MsgValorInvalid}
	}

	tipo := d.Tipo
	if tipo == "" {
		tipo = model.TipoCusto
	}
	if _, err := model.ParseTipo(string(tipo)); err != nil {
		return model.NovoLancamento{}, &ValidationError{Field: "tipo", Message: err.Error()}
	}

	return model.NovoLancamento{
		Descricao: descricao,
		Valor:     valor,
		Tipo:      tipo,
		Data:      data,
		Categoria: model.CategoriaRef{ID: d.CategoriaID},
	}, nil
}

// Cleared returns the draft after a successful create: descricao and valor
// are reset, tipo and categoria stay selected.
func (d LancamentoDraft) Cleared() LancamentoDraft {
	d.Descricao = ""
	d.Valor = ""
	return d
}
