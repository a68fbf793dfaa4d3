package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hyprest/hypothesis"
)

var (
	groupListQuery hypothesis.GroupQuery
	groupExpand    []string
	groupInput     struct {
		name        string
		description string
		groupID     string
	}
)

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"group", "g"},
	Short:   "List, inspect and manage groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the groups available to the caller",
	Args:  cobra.NoArgs,
	RunE:  runGroupsList,
}

var groupsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsGet,
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a private group",
	Args:  cobra.NoArgs,
	RunE:  runGroupsCreate,
}

var groupsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a group's name, description or group ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsUpdate,
}

var groupsUpsertCmd = &cobra.Command{
	Use:   "upsert <id>",
	Short: "Create a group with the given ID or replace it",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsUpsert,
}

var groupsMembersCmd = &cobra.Command{
	Use:   "members <id>",
	Short: "List the members of a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsMembers,
}

var groupsAddMemberCmd = &cobra.Command{
	Use:   "add-member <group-id> <user-id>",
	Short: "Add a user to a group (auth clients only)",
	Args:  cobra.ExactArgs(2),
	RunE:  runGroupsAddMember,
}

var groupsLeaveCmd = &cobra.Command{
	Use:   "leave <id>",
	Short: "Leave a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsLeave,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(
		groupsListCmd,
		groupsGetCmd,
		groupsCreateCmd,
		groupsUpdateCmd,
		groupsUpsertCmd,
		groupsMembersCmd,
		groupsAddMemberCmd,
		groupsLeaveCmd,
	)

	groupsListCmd.Flags().StringVar(&groupListQuery.Authority, "authority", "", "only groups of this authority")
	groupsListCmd.Flags().StringVar(&groupListQuery.DocumentURI, "document-uri", "", "only groups that may annotate this document")
	groupsListCmd.Flags().StringSliceVar(&groupListQuery.Expand, "expand", nil, "expand organization and/or scopes")

	groupsGetCmd.Flags().StringSliceVar(&groupExpand, "expand", nil, "expand organization and/or scopes")

	for _, c := range []*cobra.Command{groupsCreateCmd, groupsUpdateCmd, groupsUpsertCmd} {
		c.Flags().StringVar(&groupInput.name, "name", "", "group name")
		c.Flags().StringVar(&groupInput.description, "description", "", "group description")
		c.Flags().StringVar(&groupInput.groupID, "groupid", "", "authority-provided group ID (auth clients only)")
	}
	_ = groupsCreateCmd.MarkFlagRequired("name")
	_ = groupsUpsertCmd.MarkFlagRequired("name")
}

func runGroupsList(cmd *cobra.Command, args []string) error {
	lister, err := groupListerFor(client)
	if err != nil {
		return err
	}

	var query *hypothesis.GroupQuery
	if len(groupListQuery.Params()) > 0 {
		query = &groupListQuery
	}

	groups, err := lister.ListGroups(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	return out.groups(groups)
}

func runGroupsGet(cmd *cobra.Command, args []string) error {
	fetcher, err := groupFetcherFor(client)
	if err != nil {
		return err
	}

	group, err := fetcher.FetchGroup(cmd.Context(), args[0], groupExpand...)
	if err != nil {
		return fmt.Errorf("failed to fetch group: %w", err)
	}
	return out.group(group)
}

func newGroupFromFlags() hypothesis.NewGroup {
	return hypothesis.NewGroup{
		Name:        groupInput.name,
		Description: groupInput.description,
		GroupID:     groupInput.groupID,
	}
}

func runGroupsCreate(cmd *cobra.Command, args []string) error {
	creator, err := groupCreatorFor(client)
	if err != nil {
		return err
	}

	group, err := creator.CreateGroup(cmd.Context(), newGroupFromFlags())
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	logger.Info().Str("id", group.ID).Msg("Group created")
	return out.group(group)
}

func runGroupsUpdate(cmd *cobra.Command, args []string) error {
	updater, err := groupUpdaterFor(client)
	if err != nil {
		return err
	}

	group, err := updater.UpdateGroup(cmd.Context(), args[0], hypothesis.UpdatedGroup{
		Name:        groupInput.name,
		Description: groupInput.description,
		GroupID:     groupInput.groupID,
	})
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return out.group(group)
}

func runGroupsUpsert(cmd *cobra.Command, args []string) error {
	upserter, err := groupUpserterFor(client)
	if err != nil {
		return err
	}

	group, err := upserter.CreateOrUpdateGroup(cmd.Context(), args[0], newGroupFromFlags())
	if err != nil {
		return fmt.Errorf("failed to create or update group: %w", err)
	}
	return out.group(group)
}

func runGroupsMembers(cmd *cobra.Command, args []string) error {
	lister, err := groupMemberListerFor(client)
	if err != nil {
		return err
	}

	members, err := lister.ListGroupMembers(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list group members: %w", err)
	}
	return out.users(members)
}

func runGroupsAddMember(cmd *cobra.Command, args []string) error {
	c, ok := client.(*hypothesis.AuthClientClient)
	if !ok {
		return notPermitted("adding group members", client)
	}

	if _, err := c.Groups.AddGroupMember(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return out.message(map[string]any{"group": args[0], "user": args[1], "added": true},
		fmt.Sprintf("✓ Added %s to group %s", args[1], args[0]))
}

func runGroupsLeave(cmd *cobra.Command, args []string) error {
	c, ok := client.(*hypothesis.APIKeyClient)
	if !ok {
		return notPermitted("leaving groups", client)
	}

	if _, err := c.Groups.LeaveGroup(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}
	return out.message(map[string]any{"group": args[0], "left": true}, fmt.Sprintf("✓ Left group %s", args[0]))
}
