package accounts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mledger/recipeshare/cmd/cli/config"
	"github.com/mledger/recipeshare/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage your RecipeShare account",
		Long: `Sign up, log in, or log out of the RecipeShare API.
Stores the session cookie locally for future commands.`,
	}

	accountsCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
	root.GetRoot().AddCommand(accountsCmd)
}

// ==========================
// Signup
// ==========================
func signupCmd() *cobra.Command {
	var username, password, bio, imageURL string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		Long:  "Create a new account and save the session cookie locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"username": username,
				"password": password,
			}
			if bio != "" {
				payload["bio"] = bio
			}
			if imageURL != "" {
				payload["image_url"] = imageURL
			}

			user, err := authenticate("/signup", payload)
			if err != nil {
				return err
			}

			fmt.Printf("Account created. Logged in as %s (id %d).\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new account")
	cmd.Flags().StringVar(&bio, "bio", "", "Optional bio")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Optional profile image URL")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		Long:  "Log in and save the session cookie locally for future CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := authenticate("/login", map[string]interface{}{
				"username": username,
				"password": password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (id %d).\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to log in as")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the current session",
		Long:  "Clear the server-side session and remove the locally saved cookie.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodDelete, config.APIURL()+"/logout", nil)
			if err != nil {
				return err
			}
			attachSession(req)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			resp.Body.Close()

			if err := config.ClearSessionCookie(); err != nil {
				return err
			}

			fmt.Println("Logged out.")
			return nil
		},
	}
}

// ==========================
// Whoami
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodGet, config.APIURL()+"/check_session", nil)
			if err != nil {
				return err
			}
			attachSession(req)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("API error: %s", string(body))
			}

			var user userResponse
			if err := json.Unmarshal(body, &user); err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (id %d).\n", user.Username, user.ID)
			if user.Bio != nil {
				fmt.Println("Bio:", *user.Bio)
			}
			return nil
		},
	}
}

// ==========================
// Helpers
// ==========================

type userResponse struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
}

// authenticate POSTs credentials to path and saves the session cookie issued
// in the response.
func authenticate(path string, payload map[string]interface{}) (*userResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(config.APIURL()+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}

	if cookie := sessionCookie(resp); cookie != "" {
		if err := config.SaveSessionCookie(cookie); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}

	return &user, nil
}

// sessionCookie extracts the session cookie pair from a response.
func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		return c.Name + "=" + c.Value
	}
	return ""
}

// attachSession adds the locally saved session cookie to a request, if any.
func attachSession(req *http.Request) {
	if cookie := config.LoadSessionCookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}
