package main

import (
	"fmt"
	"os"

	_ "github.com/mledger/recipeshare/cmd/cli/accounts"
	_ "github.com/mledger/recipeshare/cmd/cli/recipes"
	"github.com/mledger/recipeshare/cmd/cli/root"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
