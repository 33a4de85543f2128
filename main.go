package main

import "booking-sync/cmd"

func main() {
	cmd.Execute()
}
