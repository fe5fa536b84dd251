// Command server runs the blackjack API.
//
// @title                       Blackjack API
// @version                     1.0
// @description                 Accounts, a stateless blackjack round engine, and per-player game history.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
