package main

import (
	"fmt"

	"github.com/Veraticus/foco-financeiro/internal/cli"
	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/spf13/cobra"
)

func (a *app) categoriasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categorias",
		Aliases: []string{"categoria"},
		Short:   "Manage categorias",
	}
	cmd.AddCommand(a.listCategoriasCmd())
	cmd.AddCommand(a.addCategoriaCmd())
	return cmd
}

func (a *app) listCategoriasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your categorias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := a.openDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.requireSession(); err != nil {
				return err
			}
			snap, err := a.load(ctx, d, "Carregando categorias")
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, cli.FormatTitle("Suas Categorias"))
			return cli.WriteCategorias(a.out, snap.Categorias)
		},
	}
}

func (a *app) addCategoriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NOME",
		Short: "Create a categoria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.openDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.requireSession(); err != nil {
				return err
			}
			created, err := d.engine.AddCategoria(ctx, engine.CategoriaDraft{Nome: args[0]})
			if err != nil {
				return a.sessionError(d, fmt.Errorf("failed to add categoria: %w", err))
			}

			fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Categoria %q criada (id %d).", created.Nome, created.ID)))
			return nil
		},
	}
}
