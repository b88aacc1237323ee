// ABOUTME: CLI command to view and update the sender profile
// ABOUTME: Profile fields supply NAME, EMAIL, ADRESSE and the other profile variables
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/storage/sqlite"
)

var profileUpdates = map[string]*string{}

// profileFields are the settable fields in display order
var profileFields = []struct {
	key   string
	label string
	help  string
}{
	{"full_name", "Name", "Full name (NAME)"},
	{"email", "E-Mail", "Email address (EMAIL)"},
	{"phone", "Telefon", "Phone number (TELEFON)"},
	{"address", "Adresse", "Street and number (ADRESSE)"},
	{"postal_code", "PLZ", "Postal code (PLZ_ORT)"},
	{"city", "Ort", "City (STADT, PLZ_ORT, ORT_DATUM)"},
	{"website", "Webseite", "Website (WEBSEITE)"},
}

func profileValue(p *models.SenderProfile, key string) string {
	switch key {
	case "full_name":
		return p.FullName
	case "email":
		return p.Email
	case "phone":
		return p.Phone
	case "address":
		return p.Address
	case "postal_code":
		return p.PostalCode
	case "city":
		return p.City
	case "website":
		return p.Website
	}
	return ""
}

// NewProfileCmd creates profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and manage the sender profile",
		Long: `View and manage your sender profile.

The profile holds the contact details that fill the profile variables
of every rendered letter.

Examples:
  letterkit profile
  letterkit profile --format json
  letterkit profile set --full-name "Max Mustermann" --city München
  letterkit profile set --email max@example.de --phone "+49 170 1234567"`,
		RunE: runProfileShow,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long: `Update profile fields. Fields you leave out keep their value.

Examples:
  letterkit profile set --full-name "Max Mustermann"
  letterkit profile set --postal-code 80331 --city München`,
		RunE: runProfileSet,
	}

	for _, f := range profileFields {
		v := new(string)
		profileUpdates[f.key] = v
		setCmd.Flags().StringVar(v, flagName(f.key), "", f.help)
	}

	cmd.AddCommand(setCmd)

	return cmd
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	return withStorage(func(store *sqlite.Storage) error {
		profile, err := store.GetSenderProfile()
		if err != nil {
			return fmt.Errorf("getting profile: %w", err)
		}

		if profile == nil {
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "No profile found. Create one with: letterkit profile set --full-name \"Your Name\"\n")
			}
			return nil
		}

		if outputFormat == "json" {
			return printJSON(cmd, profile)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "FIELD\tVALUE\n")
		fmt.Fprintf(w, "-----\t-----\n")
		for _, f := range profileFields {
			fmt.Fprintf(w, "%s\t%s\n", f.label, truncate(orNotSet(profileValue(profile, f.key)), 60))
		}
		fmt.Fprintf(w, "Last Updated\t%s\n", formatTime(profile.LastUpdated))
		return w.Flush()
	})
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	updates := make(map[string]string)
	for key, v := range profileUpdates {
		if *v != "" {
			updates[key] = *v
		}
	}
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update; see letterkit profile set --help")
	}

	return withStorage(func(store *sqlite.Storage) error {
		profile, err := store.GetSenderProfile()
		if err != nil {
			return fmt.Errorf("getting profile: %w", err)
		}
		if profile == nil {
			profile = &models.SenderProfile{}
		}

		profile.Merge(updates)
		if err := store.SaveSenderProfile(profile); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated (%d field(s))\n", len(updates))
		}
		return nil
	})
}
