// Command eacctl is the operator CLI for the EAC compliance attachment core.
package main

import (
	"os"

	"eaccore/internal/cli"
)

func main() {
	env := cli.NewEnv()
	os.Exit(cli.Execute(env, cli.RootCmd(env)))
}
