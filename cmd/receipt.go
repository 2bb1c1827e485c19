package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt [product-id]",
	Short: "Print the app receipt or a product receipt",
	Long:  `Print the receipt for the app, or for a single product when a product id is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openStore()
		if err != nil {
			return err
		}

		var receipt string
		if len(args) == 1 {
			receipt, err = client.GetProductReceipt(cmd.Context(), args[0])
		} else {
			receipt, err = client.GetAppReceipt(cmd.Context())
		}
		if err != nil {
			return err
		}

		fmt.Println(receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}
