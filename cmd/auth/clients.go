package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/tenantauth/internal/auth/app"
	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/pkg/cryptox"
)

func newClientsCmd(flags *configFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage registered clients directly against the database",
	}
	cmd.AddCommand(newClientsCreateCmd(flags))
	cmd.AddCommand(newClientsListCmd(flags))
	cmd.AddCommand(newClientsRotateSecretCmd(flags))
	return cmd
}

func newClientsCreateCmd(flags *configFlags) *cobra.Command {
	var (
		name     string
		tenantID string
		clientID string
		scopes   []string
		validity int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a client and print its secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, closeFn, err := openClientService(cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			req := service.RegisterRequest{
				ClientID: clientID,
				Name:     name,
				TenantID: tenantID,
				Scopes:   scopes,
			}
			if cmd.Flags().Changed("validity") {
				req.TokenValiditySeconds = &validity
			}

			reg, err := clients.Register(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "client_id:     %s\n", reg.Client.ClientID)
			fmt.Fprintf(cmd.OutOrStdout(), "client_secret: %s\n", reg.Secret)
			fmt.Fprintln(cmd.OutOrStdout(), "The secret is shown once. Store it now.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id (required)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Client id; derived from the name when empty")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Allowed scope, repeatable")
	cmd.Flags().IntVar(&validity, "validity", 0, "Token validity in seconds; the service default when unset")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newClientsListCmd(flags *configFlags) *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, closeFn, err := openClientService(cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := clients.List(cmd.Context(), service.ListFilter{TenantID: tenantID})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CLIENT ID\tTENANT\tSTATUS\tSCOPES")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", c.ClientID, c.TenantID, c.Status, c.Scopes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Only list clients of this tenant")
	return cmd
}

func newClientsRotateSecretCmd(flags *configFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-secret CLIENT_ID",
		Short: "Replace a client's secret and print the new one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, closeFn, err := openClientService(cmd, flags)
			if err != nil {
				return err
			}
			defer closeFn()

			secret, err := clients.RotateSecret(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "client_secret: %s\n", secret)
			fmt.Fprintln(cmd.OutOrStdout(), "The previous secret no longer works.")
			return nil
		},
	}
}

// openClientService opens and migrates the store the same way the server does.
func openClientService(cmd *cobra.Command, flags *configFlags) (*service.ClientService, func(), error) {
	cfg := flags.load(cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	db, err := app.OpenStore(cmd.Context(), cfg, app.NewLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	return &service.ClientService{Store: db}, func() { _ = db.Close() }, nil
}
