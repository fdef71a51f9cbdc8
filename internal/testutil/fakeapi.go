// Package testutil provides a fake Foco Financeiro backend for tests.
// It speaks the same JSON contract as the real API, records every request it
// receives, and lets a test inject failures per endpoint.
//
// Example:
//
//	fake := testutil.NewFakeAPI(t)
//	fake.AddUser("alice", "pw")
//	client := api.NewClient(fake.URL(), slot)
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Veraticus/foco-financeiro/internal/model"
)

// Messages returned by the fake, mirroring the real server.
const (
	MsgInvalidToken       = "Token inválido ou expirado"
	MsgInvalidCredentials = "Usuário ou senha inválidos"
	MsgUserExists         = "Usuário já existe"
	MsgCategoriaNotFound  = "Categoria não encontrada"
)

// Request is a request received by the fake.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

// Failure is an injected response for one endpoint.
type Failure struct {
	Body   string
	Status int
}

// FakeAPI is an httptest server implementing the backend endpoints.
type FakeAPI struct {
	server      *httptest.Server
	users       map[string]string
	tokens      map[string]string
	failures    map[string]Failure
	onRequest   func(Request)
	categorias  []model.Categoria
	lancamentos []model.Lancamento
	requests    []Request
	nextToken   int
	nextID      int
	mu          sync.Mutex
}

// NewFakeAPI starts a fake backend that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		users:    make(map[string]string),
		tokens:   make(map[string]string),
		failures: make(map[string]Failure),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the API base URL, including the /api prefix.
func (f *FakeAPI) URL() string {
	return f.server.URL + "/api"
}

// AddUser registers an account.
func (f *FakeAPI) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// IssueToken makes token valid without a login round trip.
func (f *FakeAPI) IssueToken(token, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = username
}

// RevokeTokens invalidates every issued token.
func (f *FakeAPI) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = make(map[string]string)
}

// SeedCategoria stores a categoria and returns it with its id.
func (f *FakeAPI) SeedCategoria(nome string) model.Categoria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addCategoria(nome, "")
}

// SeedLancamento stores a lançamento as given, assigning an id when zero.
func (f *FakeAPI) SeedLancamento(l model.Lancamento) model.Lancamento {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		f.nextID++
		l.ID = f.nextID
	}
	f.lancamentos = append(f.lancamentos, l)
	return l
}

// Fail makes method+path respond with status and a raw body until cleared.
func (f *FakeAPI) Fail(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = Failure{Status: status, Body: body}
}

// ClearFailures removes every injected failure.
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]Failure)
}

// OnRequest registers a hook called with every request before it is served.
func (f *FakeAPI) OnRequest(fn func(Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onRequest = fn
}

// Requests returns every request received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo returns the requests received for method+path.
func (f *FakeAPI) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeAPI) addCategoria(nome, descricao string) model.Categoria {
	f.nextID++
	c := model.Categoria{ID: f.nextID, Nome: nome, Descricao: descricao}
	f.categorias = append(f.categorias, c)
	return c
}

func (f *FakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/api")
	req := Request{
		Method:        r.Method,
		Path:          path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	hook := f.onRequest
	failure, failing := f.failures[r.Method+" "+path]
	f.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	if failing {
		w.WriteHeader(failure.Status)
		_, _ = io.WriteString(w, failure.Body)
		return
	}

	switch {
	case r.Method == http.MethodPost && path == "/auth/login":
		f.login(w, body)
	case r.Method == http.MethodPost && path == "/auth/registrar":
		f.register(w, body)
	case path == "/categoria" || path == "/lancamento":
		if !f.authorized(req.Authorization) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": MsgInvalidToken})
			return
		}
		f.serveFinance(w, r.Method, path, body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Recurso não encontrado"})
	}
}

func (f *FakeAPI) login(w http.ResponseWriter, body []byte) {
	var creds model.Credentials
	if err := json.Unmarshal(body, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requisição inválida"})
		return
	}

	f.mu.Lock()
	password, ok := f.users[creds.Username]
	if !ok || password != creds.Password {
		f.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": MsgInvalidCredentials})
		return
	}
	f.nextToken++
	token := fmt.Sprintf("T%d", f.nextToken)
	f.tokens[token] = creds.Username
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, model.AuthToken{Token: token})
}

func (f *FakeAPI) register(w http.ResponseWriter, body []byte) {
	var creds model.Credentials
	if err := json.Unmarshal(body, &creds); err != nil || creds.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requisição inválida"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Username]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": MsgUserExists})
		return
	}
	f.users[creds.Username] = creds.Password
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) authorized(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, valid := f.tokens[token]
	return valid
}

func (f *FakeAPI) serveFinance(w http.ResponseWriter, method, path string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case method == http.MethodGet && path == "/categoria":
		writeJSON(w, http.StatusOK, append([]model.Categoria{}, f.categorias...))

	case method == http.MethodPost && path == "/categoria":
		var in struct {
			Nome      string `json:"nome"`
			Descricao string `json:"descricao"`
		}
		if err := json.Unmarshal(body, &in); err != nil || in.Nome == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Nome é obrigatório"})
			return
		}
		writeJSON(w, http.StatusCreated, f.addCategoria(in.Nome, in.Descricao))

	case method == http.MethodGet && path == "/lancamento":
		out := make([]wireLancamento, 0, len(f.lancamentos))
		for _, l := range f.lancamentos {
			out = append(out, toWire(l))
		}
		writeJSON(w, http.StatusOK, out)

	case method == http.MethodPost && path == "/lancamento":
		var in model.Lancamento
		if err := json.Unmarshal(body, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requisição inválida"})
			return
		}
		var categoria *model.Categoria
		for i := range f.categorias {
			if f.categorias[i].ID == in.Categoria.ID {
				categoria = &f.categorias[i]
			}
		}
		if categoria == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": MsgCategoriaNotFound})
			return
		}
		f.nextID++
		in.ID = f.nextID
		in.Categoria = *categoria
		f.lancamentos = append(f.lancamentos, in)
		writeJSON(w, http.StatusCreated, toWire(in))

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Método não suportado"})
	}
}

// wireLancamento encodes valor as a JSON number like the real server.
type wireLancamento struct {
	Valor     json.Number     `json:"valor"`
	Descricao string          `json:"descricao"`
	Tipo      model.Tipo      `json:"tipo"`
	Data      model.Date      `json:"data"`
	Categoria model.Categoria `json:"categoria"`
	ID        int             `json:"id"`
}

func toWire(l model.Lancamento) wireLancamento {
	return wireLancamento{
		ID:        l.ID,
		Descricao: l.Descricao,
		Valor:     json.Number(l.Valor.String()),
		Tipo:      l.Tipo,
		Data:      l.Data,
		Categoria: l.Categoria,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
