package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vyapar-labs/siterisk/internal/geocode"
)

var (
	geocodeLocation string
	geocodePincode  string
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve a location or pincode to coordinates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if geocodeLocation == "" && geocodePincode == "" {
			return eris.New("either --location or --pincode is required")
		}
		ctx := cmd.Context()

		env, err := initApp(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		loc := env.Cascade.Resolve(ctx, geocode.Query{
			Location: geocodeLocation,
			Pincode:  geocodePincode,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(loc)
	},
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeLocation, "location", "", "area name or free-text location")
	geocodeCmd.Flags().StringVar(&geocodePincode, "pincode", "", "Delhi pincode")
	rootCmd.AddCommand(geocodeCmd)
}
