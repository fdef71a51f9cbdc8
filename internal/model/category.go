// Package model defines the core domain models used throughout the application.
package model

// Categoria represents a user-defined label grouping lançamentos.
type Categoria struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	ID        int    `json:"id"`
}

// CategoriaRef is the reference embedded in a lançamento payload.
type CategoriaRef struct {
	ID int `json:"id"`
}
