package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <refresh-projects|projects|backgrounds|reviews>")
	}

	var err error
	switch os.Args[1] {
	case "refresh-projects":
		err = runRefreshProjects()
	case "projects":
		err = runProjects()
	case "backgrounds":
		err = runBackgrounds()
	case "reviews":
		err = runReviews()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
