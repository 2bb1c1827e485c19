package cmd

import (
	"fmt"

	"github.com/huanfeng/storesim/internal/i18n"
	"github.com/spf13/cobra"
)

var purchaseReceipt bool

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Simulate a purchase",
	Long:  `Request a purchase of the app or of an in-app product and print the receipt.`,
}

var purchaseAppCmd = &cobra.Command{
	Use:   "app",
	Short: "Purchase the full app",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openStore()
		if err != nil {
			return err
		}

		receipt, err := client.RequestAppPurchase(cmd.Context(), purchaseReceipt)
		if err != nil {
			return err
		}
		printPurchase(receipt)
		return nil
	},
}

var purchaseProductCmd = &cobra.Command{
	Use:   "product <product-id>",
	Short: "Purchase an in-app product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openStore()
		if err != nil {
			return err
		}

		receipt, err := client.RequestProductPurchase(cmd.Context(), args[0], purchaseReceipt)
		if err != nil {
			return err
		}
		printPurchase(receipt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purchaseCmd)
	purchaseCmd.AddCommand(purchaseAppCmd)
	purchaseCmd.AddCommand(purchaseProductCmd)

	purchaseCmd.PersistentFlags().BoolVarP(&purchaseReceipt, "receipt", "r", true, "include a receipt in the purchase result")
}

func printPurchase(receipt string) {
	if receipt == "" {
		fmt.Println(i18n.T("purchase.noReceipt"))
		return
	}
	fmt.Println(receipt)
}
