package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidTipo is returned when a lançamento type is neither CUSTO nor GANHO.
var ErrInvalidTipo = errors.New("invalid lancamento tipo")

// Tipo indicates whether a lançamento is an expense or an income.
type Tipo string

const (
	// TipoCusto represents an expense.
	TipoCusto Tipo = "CUSTO"
	// TipoGanho represents an income.
	TipoGanho Tipo = "GANHO"
)

// Tipos lists the lançamento types in display order.
var Tipos = []Tipo{TipoCusto, TipoGanho}

// ParseTipo parses a user supplied type, ignoring case.
func ParseTipo(s string) (Tipo, error) {
	switch Tipo(strings.ToUpper(strings.TrimSpace(s))) {
	case TipoCusto:
		return TipoCusto, nil
	case TipoGanho:
		return TipoGanho, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTipo, s)
	}
}

// Label returns the human readable name of the type.
func (t Tipo) Label() string {
	if t == TipoGanho {
		return "Ganho"
	}
	return "Custo"
}

// Sign returns the prefix used when displaying an amount of this type.
func (t Tipo) Sign() string {
	if t == TipoCusto {
		return "-"
	}
	return "+"
}

// Lancamento represents a single financial transaction record.
type Lancamento struct {
	Data      Date            `json:"data"`
	Valor     decimal.Decimal `json:"valor"`
	Descricao string          `json:"descricao"`
	Tipo      Tipo            `json:"tipo"`
	Categoria Categoria       `json:"categoria"`
	ID        int             `json:"id"`
}

// FormatValor renders the signed amount, e.g. "- R$ 12.50".
func (l Lancamento) FormatValor() string {
	return fmt.Sprintf("%s R$ %s", l.Tipo.Sign(), l.Valor.StringFixed(2))
}

// NovoLancamento is the payload sent when creating a lançamento.
type NovoLancamento struct {
	Valor     decimal.Decimal `json:"-"`
	Descricao string          `json:"descricao"`
	Tipo      Tipo            `json:"tipo"`
	Data      Date            `json:"data"`
	Categoria CategoriaRef    `json:"categoria"`
}

// MarshalJSON emits valor as a JSON number, the shape the API expects.
func (n NovoLancamento) MarshalJSON() ([]byte, error) {
	type payload NovoLancamento
	return json.Marshal(struct {
		payload
		Valor json.Number `json:"valor"`
	}{payload: payload(n), Valor: json.Number(n.Valor.String())})
}

// SortLancamentos orders lançamentos by descending date, keeping the server
// order for equal dates.
func SortLancamentos(lancamentos []Lancamento) {
	sort.SliceStable(lancamentos, func(i, j int) bool {
		return lancamentos[i].Data.After(lancamentos[j].Data)
	})
}
