package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/foco-financeiro/internal/cli"
	"github.com/spf13/cobra"
)

// credentials reads the username flag and the password flag, prompting for
// the password when the flag is absent.
func (a *app) credentials(ctx context.Context, cmd *cobra.Command) (string, string, error) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		var err error
		password, err = cli.PromptSecret(ctx, a.in, a.errOut, "Senha")
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
	}
	return username, password, nil
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("username", "u", "", "username")
	cmd.Flags().StringP("password", "p", "", "password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
}

func (a *app) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			username, password, err := a.credentials(ctx, cmd)
			if err != nil {
				return err
			}

			d, err := a.openDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.session.Login(ctx, username, password); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			fmt.Fprintln(a.out, cli.FormatSuccess("Login realizado como "+username+"."))
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			username, password, err := a.credentials(ctx, cmd)
			if err != nil {
				return err
			}

			d, err := a.openDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.session.Register(ctx, username, password); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			fmt.Fprintln(a.out, cli.FormatSuccess("Registro bem-sucedido! Use 'foco login' para entrar."))
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := a.openDeps(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.session.Logout(ctx); err != nil {
				return fmt.Errorf("failed to logout: %w", err)
			}
			fmt.Fprintln(a.out, cli.FormatSuccess("Sessão encerrada."))
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			state := cli.FormatWarning("Anônimo")
			if d.session.IsAuthenticated() {
				state = cli.FormatSuccess("Autenticado")
			}

			content := fmt.Sprintf("Sessão:  %s\nAPI:     %s\nArquivo: %s",
				state, a.settings.APIURL, a.sessionLocation())
			fmt.Fprintln(a.out, cli.RenderBox("Foco Financeiro", content))
			return nil
		},
	}
}

func (a *app) sessionLocation() string {
	if a.ephemeral {
		return "(memória)"
	}
	return a.settings.SessionPath
}
