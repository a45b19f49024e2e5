package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/auth"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

var (
	userName  string
	userEmail string
	userRole  string
	userPass  string
)

// delish user:add --email a@b.c --password secret --role vendor
var userAddCmd = &cobra.Command{
	Use:   "user:add",
	Short: "Add an admin or vendor account to users.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userEmail == "" || userPass == "" {
			return errors.New("user:add: --email and --password are required")
		}
		if userRole != models.RoleAdmin && userRole != models.RoleVendor {
			return fmt.Errorf("user:add: role must be %q or %q", models.RoleAdmin, models.RoleVendor)
		}

		store, err := docstore.Open(config.DataDir())
		if err != nil {
			return err
		}
		repo := repositories.NewUserRepository(store)
		if _, found, err := repo.FindByEmail(userEmail); err != nil {
			return err
		} else if found {
			return fmt.Errorf("user:add: %s already exists", userEmail)
		}

		hash, err := auth.HashPassword(userPass)
		if err != nil {
			return err
		}
		users, err := repo.All()
		if err != nil {
			return err
		}
		u := models.User{ID: uuid.NewString(), Name: userName, Email: userEmail, Role: userRole, Password: hash}
		if err := repo.Save(append(users, u)); err != nil {
			return err
		}
		fmt.Printf("added %s (%s) as %s\n", u.Email, u.ID, u.Role)
		return nil
	},
}

// delish user:hash <password>
var userHashCmd = &cobra.Command{
	Use:   "user:hash <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userAddCmd.Flags().StringVar(&userRole, "role", models.RoleVendor, "admin or vendor")
	userAddCmd.Flags().StringVar(&userPass, "password", "", "plain text password, stored as a bcrypt hash")
}
