package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/spf13/cobra"
)

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Load the listing information for the app and its products",
	Long:  `Load the listing information through the configured store backend and print it.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openStore()
		if err != nil {
			return err
		}

		listing, err := client.LoadListingInformation(cmd.Context())
		if err != nil {
			return err
		}

		link := ""
		if u := client.LinkURI(); u != nil {
			link = u.String()
		}

		result := listingResult{
			AppID:   client.AppID(),
			LinkURI: link,
			Listing: listing,
		}
		if ok, err := printStructured(result); ok {
			return err
		}

		printListing(result)
		return nil
	},
}

type listingResult struct {
	AppID   uuid.UUID                  `json:"app_id" yaml:"app_id"`
	LinkURI string                     `json:"link_uri" yaml:"link_uri"`
	Listing *models.ListingInformation `json:"listing" yaml:"listing"`
}

func init() {
	rootCmd.AddCommand(listingCmd)
}

func printListing(result listingResult) {
	listing := result.Listing

	fmt.Printf("=== App Listing ===\n\n")
	fmt.Printf("App ID: %s\n", result.AppID)
	fmt.Printf("Link: %s\n", result.LinkURI)
	fmt.Printf("Name: %s\n", listing.Name)
	if listing.Description != "" {
		fmt.Printf("Description: %s\n", listing.Description)
	}
	fmt.Printf("Price: %s\n", listing.FormattedPrice)
	fmt.Printf("Market: %s\n", listing.CurrentMarket)
	fmt.Printf("Age rating: %d\n", listing.AgeRating)

	if len(listing.ProductListings) == 0 {
		fmt.Println("\nNo in-app products.")
		return
	}

	ids := make([]string, 0, len(listing.ProductListings))
	for id := range listing.ProductListings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("\n=== Products ===\n\n")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT ID\tNAME\tPRICE\tTYPE\tKEYWORDS")
	for _, id := range ids {
		p := listing.ProductListings[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, p.Name, p.FormattedPrice, p.ProductType, strings.Join(p.Keywords, ","))
	}
	w.Flush()

	fmt.Printf("\nTotal: %d products\n", len(ids))
}
