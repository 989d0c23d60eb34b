package main

import (
	"log"

	"helpdesk-system/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
