package main

import (
	"log"

	"github.com/2977094657/DidaAPI/internal/version"
)

func main() {
	log.Printf(
		"Starting Dida API Server -- version %s -- commit %s",
		version.Version(),
		version.Commit(),
	)

	apiServer, err := getAPIServerFromEnvironment()
	if err != nil {
		log.Fatal(err)
	}

	log.Println(apiServer.ListenAndServe())
}
