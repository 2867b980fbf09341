package main

import "mygov_dao/cmd"

func main() {
	cmd.Execute()
}
