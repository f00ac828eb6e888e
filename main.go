package main

import "github.com/LegacyCodeHQ/implgen/cmd"

func main() {
	cmd.Execute()
}
