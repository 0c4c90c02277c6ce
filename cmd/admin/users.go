package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCreateSuperuserCmd(open openFunc) *cobra.Command {
	var email, password, username string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an active staff superuser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, open, func(ctx context.Context, e *env) error {
				user, err := e.admin.CreateSuperuser(ctx, email, password, username)
				if err != nil {
					return fmt.Errorf("create superuser failed: %w", err)
				}
				cmd.Printf("Superuser %s (%s) created with id %d\n", user.Username, user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&username, "username", "", "username, derived from the email when empty")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSetStaffCmd(open openFunc) *cobra.Command {
	var email string
	var staff bool
	cmd := &cobra.Command{
		Use:   "set-staff",
		Short: "Grant or revoke staff status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, open, func(ctx context.Context, e *env) error {
				user, err := e.admin.SetStaff(ctx, email, staff)
				if err != nil {
					return fmt.Errorf("set staff failed: %w", err)
				}
				cmd.Printf("%s is_staff=%t\n", user.Email, user.IsStaff)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&staff, "staff", true, "staff flag value")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSetActiveCmd(open openFunc) *cobra.Command {
	var email string
	var active bool
	cmd := &cobra.Command{
		Use:   "set-active",
		Short: "Enable or disable an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, open, func(ctx context.Context, e *env) error {
				user, err := e.admin.SetActive(ctx, email, active)
				if err != nil {
					return fmt.Errorf("set active failed: %w", err)
				}
				cmd.Printf("%s is_active=%t\n", user.Email, user.IsActive)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&active, "active", true, "active flag value")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newDeleteUserCmd(open openFunc) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "Delete an account with its posts, images and media",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, open, func(ctx context.Context, e *env) error {
				if err := e.admin.DeleteUser(ctx, email); err != nil {
					return fmt.Errorf("delete user failed: %w", err)
				}
				cmd.Printf("Deleted %s\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newListUsersCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, open, func(ctx context.Context, e *env) error {
				users, err := e.admin.ListUsers(ctx)
				if err != nil {
					return fmt.Errorf("list users failed: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE")
				for _, u := range users {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.Role(), u.IsActive)
				}
				return w.Flush()
			})
		},
	}
}
