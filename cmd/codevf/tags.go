package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codevf/codevf-go/pkg/codevf"
)

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List expertise tags and their cost multipliers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			client, err := codevf.New(cfg.ClientConfig())
			if err != nil {
				return err
			}

			tags, err := client.ListTags(cmd.Context())
			if err != nil {
				return err
			}

			if len(tags) == 0 {
				fmt.Println("No tags available.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMULTIPLIER")
			for _, tag := range tags {
				fmt.Fprintf(w, "%d\t%s\t%.2fx\n", tag.ID, tag.Name, tag.Multiplier)
			}
			return w.Flush()
		},
	}
}
