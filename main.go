package main

import "github.com/mmc102/partner-finder/cmd"

func main() {
	cmd.Execute()
}
