package main

import (
	"scorpion-client/cmd/scorpion-cli/commands"
	"scorpion-client/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
