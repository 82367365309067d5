package main

import "sfr-epg/cmd"

func main() {
	cmd.Execute()
}
