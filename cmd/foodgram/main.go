// Command foodgram runs the Foodgram recipe sharing API.
//
// @title        Foodgram API
// @version      1.0
// @description  Recipes with tags and ingredient amounts, favorites, shopping cart and author subscriptions.
// @BasePath     /api/v1
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tbourn/foodgram-backend/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
