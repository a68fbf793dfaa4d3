package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hyprest/hypothesis"
)

var userInput struct {
	authority   string
	username    string
	email       string
	displayName string
}

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user", "u"},
	Short:   "Manage users of an authority (auth clients only)",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE:  runUsersCreate,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <userid>",
	Short: "Fetch a user by userid, e.g. acct:alice@example.com",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <username>",
	Short: "Update a user's email or display name",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd, usersGetCmd, usersUpdateCmd)

	usersCreateCmd.Flags().StringVar(&userInput.authority, "authority", "", "authority of the auth client")
	usersCreateCmd.Flags().StringVar(&userInput.username, "username", "", "username")
	usersCreateCmd.Flags().StringVar(&userInput.email, "email", "", "email address")
	usersCreateCmd.Flags().StringVar(&userInput.displayName, "display-name", "", "display name")
	for _, name := range []string{"authority", "username", "email"} {
		_ = usersCreateCmd.MarkFlagRequired(name)
	}

	usersUpdateCmd.Flags().StringVar(&userInput.email, "email", "", "new email address")
	usersUpdateCmd.Flags().StringVar(&userInput.displayName, "display-name", "", "new display name")
}

func userServiceFor(c hypothesis.Client) (hypothesis.UserService, error) {
	if c, ok := c.(*hypothesis.AuthClientClient); ok {
		return c.Users, nil
	}
	return hypothesis.UserService{}, notPermitted("managing users", c)
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	users, err := userServiceFor(client)
	if err != nil {
		return err
	}

	user, err := users.CreateUser(cmd.Context(), hypothesis.NewUser{
		Authority:   userInput.authority,
		Username:    userInput.username,
		Email:       userInput.email,
		DisplayName: userInput.displayName,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info().Str("userid", user.UserID).Msg("User created")
	return out.user(user)
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	users, err := userServiceFor(client)
	if err != nil {
		return err
	}

	user, err := users.FetchUser(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	return out.user(user)
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	users, err := userServiceFor(client)
	if err != nil {
		return err
	}

	var update hypothesis.UpdatedUser
	if cmd.Flags().Changed("email") {
		update.Email = userInput.email
	}
	if cmd.Flags().Changed("display-name") {
		update.DisplayName = &userInput.displayName
	}
	if update == (hypothesis.UpdatedUser{}) {
		return fmt.Errorf("nothing to update: set --email or --display-name")
	}

	user, err := users.UpdateUser(cmd.Context(), args[0], update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return out.user(user)
}
