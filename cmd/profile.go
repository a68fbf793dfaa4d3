package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hyprest/hypothesis"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile of the configured user",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the groups of the profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileGroups,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileGroupsCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	reader, err := profileReaderFor(client)
	if err != nil {
		return err
	}

	profile, err := reader.FetchProfile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	return out.value(profile, func(sb *strings.Builder) {
		formatProfile(sb, profile)
	})
}

func formatProfile(sb *strings.Builder, p *hypothesis.Profile) {
	if !p.Authenticated() {
		fmt.Fprintf(sb, "Anonymous (%s)\n", p.Authority)
	} else {
		fmt.Fprintf(sb, "%s\n", *p.UserID)
		if p.UserInfo != nil && p.UserInfo.DisplayName != nil {
			fmt.Fprintf(sb, "├─ Display name: %s\n", *p.UserInfo.DisplayName)
		}
	}
	fmt.Fprintf(sb, "├─ Authority: %s\n", p.Authority)
	fmt.Fprintf(sb, "└─ Groups: %d\n", len(p.Groups))
	for _, g := range p.Groups {
		visibility := "private"
		if g.Public {
			visibility = "public"
		}
		fmt.Fprintf(sb, "   • %s  %s (%s)\n", g.ID, g.Name, visibility)
	}
}

func runProfileGroups(cmd *cobra.Command, args []string) error {
	reader, err := profileReaderFor(client)
	if err != nil {
		return err
	}

	groups, err := reader.FetchProfileGroups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch profile groups: %w", err)
	}
	return out.groups(groups)
}
