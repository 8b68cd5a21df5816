package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-ingest/internal/store"
)

var (
	listDomain  string
	listCompany string
	listLimit   int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the prospects schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return eris.Wrap(st.Migrate(cmd.Context()), "migrate")
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored prospects",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(cmd.Context(), store.RecordFilter{
			Domain:  listDomain,
			Company: listCompany,
			Limit:   listLimit,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, rec := range records {
			fmt.Fprintf(out, "%-35s %-15s %-15s %s\n", rec.Email, rec.FirstName, rec.LastName, rec.Company.Name)
		}
		fmt.Fprintf(out, "%d prospects\n", len(records))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDomain, "domain", "", "filter by company domain")
	listCmd.Flags().StringVar(&listCompany, "company", "", "filter by company name")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum rows returned")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(listCmd)
}
