package engine

import "github.com/Veraticus/foco-financeiro/internal/model"

// Phase is the stage of a sync cycle.
type Phase int

// Sync cycle phases.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Dashboard holds the state of the dashboard between sync cycles.
type Dashboard struct {
	Err         error
	Categorias  []model.Categoria
	Lancamentos []model.Lancamento
	Categoria   CategoriaDraft
	Lancamento  LancamentoDraft
	Phase       Phase
}

// NewDashboard returns an idle dashboard with empty drafts.
func NewDashboard() *Dashboard {
	return &Dashboard{Lancamento: NewLancamentoDraft()}
}

// Begin starts a cycle.
func (d *Dashboard) Begin() {
	d.Phase = PhaseLoading
	d.Err = nil
}

// Resolve ends the cycle with its outcome. On success the data is replaced
// and the first categoria is selected when nothing is. On failure the data
// of the previous cycle is kept.
func (d *Dashboard) Resolve(snap Snapshot, err error) {
	if err != nil {
		d.Phase = PhaseFailed
		d.Err = err
		return
	}

	d.Categorias = snap.Categorias
	d.Lancamentos = snap.Lancamentos
	d.Phase = PhaseReady
	d.Err = nil

	if d.Lancamento.CategoriaID == 0 && len(d.Categorias) > 0 {
		d.Lancamento.CategoriaID = d.Categorias[0].ID
	}
}

// Loading reports whether a cycle is in flight.
func (d *Dashboard) Loading() bool {
	return d.Phase == PhaseLoading
}

// ErrorMessage returns the message of the last failed cycle.
func (d *Dashboard) ErrorMessage() string {
	return Message(d.Err)
}

// SelectedCategoria returns the categoria chosen in the lançamento draft.
func (d *Dashboard) SelectedCategoria() (model.Categoria, bool) {
	for _, c := range d.Categorias {
		if c.ID == d.Lancamento.CategoriaID {
			return c, true
		}
	}
	return model.Categoria{}, false
}

// CycleCategoria moves the categoria selection by delta, wrapping around.
func (d *Dashboard) CycleCategoria(delta int) {
	n := len(d.Categorias)
	if n == 0 {
		return
	}
	idx := 0
	for i, c := range d.Categorias {
		if c.ID == d.Lancamento.CategoriaID {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	d.Lancamento.CategoriaID = d.Categorias[idx].ID
}

// CycleTipo toggles the tipo in the lançamento draft.
func (d *Dashboard) CycleTipo() {
	if d.Lancamento.Tipo == model.TipoGanho {
		d.Lancamento.Tipo = model.TipoCusto
		return
	}
	d.Lancamento.Tipo = model.TipoGanho
}

// CategoriaCreated clears the categoria draft.
func (d *Dashboard) CategoriaCreated() {
	d.Categoria = CategoriaDraft{}
}

// LancamentoCreated clears descricao and valor of the lançamento draft.
func (d *Dashboard) LancamentoCreated() {
	d.Lancamento = d.Lancamento.Cleared()
}
