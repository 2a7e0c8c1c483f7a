package main

import "github.com/KaramelBytes/statlens/cmd"

func main() {
	cmd.Execute()
}
