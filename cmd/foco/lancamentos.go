package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/foco-financeiro/internal/cli"
	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) lancamentosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lancamentos",
		Aliases: []string{"lancamento"},
		Short:   "Manage lançamentos",
	}
	cmd.AddCommand(a.listLancamentosCmd())
	cmd.AddCommand(a.addLancamentoCmd())
	return cmd
}

func (a *app) listLancamentosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your lançamentos, newest first",
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
			snap, err := a.load(ctx, d, "Carregando lançamentos")
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, cli.FormatTitle("Últimos Lançamentos"))
			return cli.WriteLancamentos(a.out, snap.Lancamentos)
		},
	}
}

func (a *app) addLancamentoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a lançamento dated today",
		Example: `  foco lancamentos add --descricao "Feira" --valor 42,10 --categoria Comida
  foco lancamentos add --descricao "Salário" --valor 1500 --tipo ganho --categoria 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			descricao, _ := cmd.Flags().GetString("descricao")
			valor, _ := cmd.Flags().GetString("valor")
			tipoFlag, _ := cmd.Flags().GetString("tipo")
			categoria, _ := cmd.Flags().GetString("categoria")

			tipo, err := model.ParseTipo(tipoFlag)
			if err != nil {
				return common.NewUserError("Tipo deve ser CUSTO ou GANHO.", err)
			}

			d, err := a.openDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.requireSession(); err != nil {
				return err
			}
			categoriaID, err := a.resolveCategoria(ctx, d, categoria)
			if err != nil {
				return err
			}

			draft := engine.NewLancamentoDraft()
			draft.Descricao = descricao
			draft.Valor = valor
			draft.Tipo = tipo
			draft.CategoriaID = categoriaID

			created, err := d.engine.AddLancamento(ctx, draft)
			if err != nil {
				return a.sessionError(d, fmt.Errorf("failed to add lancamento: %w", err))
			}

			fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Lançamento %q registrado: %s", created.Descricao, cli.FormatValor(*created))))
			return nil
		},
	}
	cmd.Flags().StringP("descricao", "d", "", "description")
	cmd.Flags().StringP("valor", "v", "", "amount, e.g. 42.10 or 42,10")
	cmd.Flags().StringP("tipo", "t", string(model.TipoCusto), "CUSTO or GANHO")
	cmd.Flags().StringP("categoria", "c", "", "categoria id or nome")
	return cmd
}

// resolveCategoria maps a categoria id or nome to its id. An empty value
// resolves to 0, which the draft rejects.
func (a *app) resolveCategoria(ctx context.Context, d *deps, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	snap, err := a.load(ctx, d, "Procurando categoria")
	if err != nil {
		return 0, err
	}
	for _, c := range snap.Categorias {
		if strings.EqualFold(c.Nome, value) {
			return c.ID, nil
		}
	}
	return 0, common.NewUserError(fmt.Sprintf("Categoria %q não encontrada.", value), common.ErrNotFound)
}
