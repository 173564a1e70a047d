package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func buildListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list <page>",
		Short:   "Scan a page's directory and print its items as JSON",
		Example: "  extranetd list lora --lora-dir ~/models/Lora\n  extranetd list hypernetworks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, o.logPretty, cmd.ErrOrStderr())
			cat := newCatalog(cfg, &log)
			if err := cat.Refresh(cmd.Context(), args[0]); err != nil {
				return err
			}
			items, err := cat.Items(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}
}

func buildDirsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dirs",
		Short: "Print the directories previews may be served from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, o.logPretty, cmd.ErrOrStderr())
			for _, p := range newCatalog(cfg, &log).Pages() {
				for _, d := range p.AllowedDirectories {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Name, d)
				}
			}
			return nil
		},
	}
}
