package main

import (
	"os"

	"github.com/biosecret/todolist-api/cmd"
)

// @title                       todolist-api
// @version                     1.0
// @description                 Users, todo lists and tasks behind token authentication.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  Token
// @in                          header
// @name                        Authorization
// @description                 Token <jwt>
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
