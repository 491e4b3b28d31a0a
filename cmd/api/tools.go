package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
)

func stagesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Print the analysis stage catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stages.All())
			}
			for _, s := range stages.All() {
				fmt.Fprintf(out, "%2d  %s\n", s.Index, s.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full catalog as JSON")
	return cmd
}

// probeCmd checks a key against the configured provider without starting the server.
func probeCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <api-key>",
		Short: "Validate an API key against the configured provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*path)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			v := newValidator(cfg, newProvider(cfg), log)
			res := v.Validate(cmd.Context(), credentials.New(args[0]))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("key rejected: %s", res.Kind)
			}
			return nil
		},
	}
}
