package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/auth"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/key"
)

func init() {
	rootCmd.AddCommand(adminCmd)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Store the admin password and upload token in the system keyring",
	Long: fmt.Sprintf(`Store the admin password and upload token in the system keyring.

Values set in the configuration (%s, %s) take precedence over the keyring.`, key.AdminPassword, key.AdminUploadToken),
}

func init() {
	adminCmd.AddCommand(adminPasswordCmd)
	adminPasswordCmd.Flags().BoolP("delete", "d", false, "Remove the stored password, disabling the admin panel")
}

var adminPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Set the admin panel password",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("delete")) {
			handleErr(auth.Delete(auth.AdminPassword))
			fmt.Printf("%s admin password removed\n", icon.Get(icon.Success))
			return
		}

		var password string
		handleErr(survey.AskOne(&survey.Password{Message: "New admin password"}, &password, survey.WithValidator(survey.MinLength(8))))

		var confirm string
		handleErr(survey.AskOne(&survey.Password{Message: "Repeat password"}, &confirm))
		if confirm != password {
			handleErr(fmt.Errorf("passwords do not match"))
		}

		handleErr(auth.Set(auth.AdminPassword, password))
		fmt.Printf("%s admin password stored\n", icon.Get(icon.Lock))
	},
}

func init() {
	adminCmd.AddCommand(adminTokenCmd)
	adminTokenCmd.Flags().BoolP("generate", "g", false, "Generate a random token and print it")
	adminTokenCmd.Flags().BoolP("delete", "d", false, "Remove the stored token, disabling automated uploads")
	adminTokenCmd.MarkFlagsMutuallyExclusive("generate", "delete")
}

var adminTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set the token accepted by the automated cookie upload endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("delete")) {
			handleErr(auth.Delete(auth.UploadToken))
			fmt.Printf("%s upload token removed\n", icon.Get(icon.Success))
			return
		}

		var token string
		if lo.Must(cmd.Flags().GetBool("generate")) {
			token = uuid.NewString()
		} else {
			handleErr(survey.AskOne(&survey.Password{Message: "Upload token"}, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.Set(auth.UploadToken, token))
		fmt.Printf("%s upload token stored\n", icon.Get(icon.Lock))
		if lo.Must(cmd.Flags().GetBool("generate")) {
			fmt.Println(token)
		}
	},
}
