package main

import "github.com/nfrund/vrcadmin/cmd/vrcadmin/cmd"

func main() {
	cmd.Execute()
}
