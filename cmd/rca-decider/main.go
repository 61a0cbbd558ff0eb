package main

import "rca-decider/internal/server"

func main() {
	server.Run()
}
