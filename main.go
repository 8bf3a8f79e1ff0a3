package main

import "github.com/josephlewis42/dosbatch/cmd"

func main() {
	cmd.Execute()
}
