package main

import "github.com/edgegate/edgegate/cmd"

func main() {
	cmd.Execute()
}
