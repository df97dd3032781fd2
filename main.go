package main

import "github.com/inovacc/repodeck/cmd"

func main() {
	cmd.Execute()
}
