package main

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/spf13/cobra"

	"github.com/iakinsey/aetherscope/internal/signal"
)

var schemaHosts []string
var schemaKeyspace string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the signal-store tables against a Cassandra cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster := gocql.NewCluster(schemaHosts...)
		cluster.Keyspace = schemaKeyspace
		session, err := cluster.CreateSession()
		if err != nil {
			return fmt.Errorf("connect to cassandra: %w", err)
		}
		defer session.Close()

		if err := signal.EnsureSchema(session); err != nil {
			return err
		}
		fmt.Println("signal schema ensured")
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringSliceVar(&schemaHosts, "hosts", []string{"127.0.0.1"}, "Cassandra contact points")
	schemaCmd.Flags().StringVar(&schemaKeyspace, "keyspace", "aetherscope", "Cassandra keyspace")
	rootCmd.AddCommand(schemaCmd)
}
