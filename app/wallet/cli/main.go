package main

import "github.com/sofiacoin/node/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
