package recipes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mledger/recipeshare/cmd/cli/config"
	"github.com/mledger/recipeshare/cmd/cli/output"
	"github.com/mledger/recipeshare/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage your recipes",
		Long:  "List your recipes or create new ones. Requires a logged-in session (see 'accounts login').",
	}

	recipesCmd.AddCommand(listRecipesCmd(), createRecipeCmd())
	root.GetRoot().AddCommand(recipesCmd)
}

type recipeResponse struct {
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
}

// ==========================
// List Recipes
// ==========================
func listRecipesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodGet, config.APIURL()+"/recipes", nil)
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

			var recipes []recipeResponse
			if err := json.Unmarshal(body, &recipes); err != nil {
				return err
			}

			if asJSON {
				fmt.Println(string(body))
				return nil
			}

			rows := make([][]interface{}, 0, len(recipes))
			for _, r := range recipes {
				rows = append(rows, []interface{}{r.Title, r.MinutesToComplete, r.Instructions})
			}
			output.RenderTable([]string{"Title", "Minutes", "Instructions"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")

	return cmd
}

// ==========================
// Create Recipe
// ==========================
func createRecipeCmd() *cobra.Command {
	var title, instructions string
	var minutes int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.Marshal(map[string]interface{}{
				"title":               title,
				"instructions":        instructions,
				"minutes_to_complete": minutes,
			})
			if err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodPost, config.APIURL()+"/recipes", bytes.NewReader(payload))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			attachSession(req)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("API error: %s", string(body))
			}

			var created recipeResponse
			if err := json.Unmarshal(body, &created); err != nil {
				return err
			}

			fmt.Printf("Created recipe %q (%d minutes).\n", created.Title, created.MinutesToComplete)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&instructions, "instructions", "", "How to make it")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes to complete")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("instructions")
	cmd.MarkFlagRequired("minutes")

	return cmd
}

// attachSession adds the locally saved session cookie to a request, if any.
func attachSession(req *http.Request) {
	if cookie := config.LoadSessionCookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}
