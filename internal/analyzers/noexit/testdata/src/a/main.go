package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) > 3 {
		log.Fatal("too many args") // want `do not call log.Fatal in main.main`
	}
	defer func() {
		os.Exit(3)
	}()
	helper()
	os.Exit(1) // want `do not call os.Exit in main.main`
}

func helper() {
	os.Exit(2)
}
