package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hyprest/hypothesis"
)

// indexCmd represents the root command, which prints the API index
var indexCmd = &cobra.Command{
	Use:   "root",
	Short: "Show the API index of available routes",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection and credentials",
	Long: `Test the connection to the configured Hypothesis instance and check that the
configured credentials are accepted.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(indexCmd, testCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	index, err := client.Root(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch API index: %w", err)
	}

	return out.value(index, func(sb *strings.Builder) {
		l := index.Links
		routes := []struct {
			name  string
			route hypothesis.RouteMetadata
		}{
			{"search", l.Search},
			{"annotation.create", l.Annotation.Create},
			{"annotation.read", l.Annotation.Read},
			{"annotation.update", l.Annotation.Update},
			{"annotation.delete", l.Annotation.Delete},
			{"annotation.flag", l.Annotation.Flag},
			{"annotation.hide", l.Annotation.Hide},
			{"annotation.unhide", l.Annotation.Unhide},
			{"groups.read", l.Groups.Read},
			{"group.create", l.Group.Create},
			{"group.read", l.Group.Read},
			{"group.update", l.Group.Update},
			{"group.create_or_update", l.Group.CreateOrUpdate},
			{"group.members.read", l.Group.Members.Read},
			{"group.member.add", l.Group.Member.Add},
			{"group.member.delete", l.Group.Member.Delete},
			{"profile.read", l.Profile.Read},
			{"profile.groups.read", l.Profile.Groups.Read},
			{"profile.update", l.Profile.Update},
			{"user.create", l.User.Create},
			{"user.read", l.User.Read},
			{"user.update", l.User.Update},
		}
		for _, r := range routes {
			fmt.Fprintf(sb, "%-24s %-6s %s\n", r.name, r.route.Method, r.route.URL)
		}
	})
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fmt.Fprintf(cmd.OutOrStdout(), "Testing connection to Hypothesis at %s...\n", cfg.API.URL)

	index, err := client.Root(ctx)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Connection successful!")
	fmt.Fprintf(cmd.OutOrStdout(), "- Search endpoint: %s\n", index.Links.Search.URL)
	fmt.Fprintf(cmd.OutOrStdout(), "- Auth mode: %s\n", client.Mode())

	switch c := client.(type) {
	case *hypothesis.APIKeyClient:
		profile, err := c.Profile.FetchProfile(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}
		if !profile.Authenticated() {
			return errors.New("API key was not accepted: the profile is anonymous")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Authenticated as %s\n", *profile.UserID)
		fmt.Fprintf(cmd.OutOrStdout(), "- Groups: %d\n", len(profile.Groups))
	case *hypothesis.UnauthenticatedClient:
		fmt.Fprintln(cmd.OutOrStdout(), "- No credentials configured, only public data is available")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "- Credentials are checked on the first authenticated request")
	}

	return nil
}
