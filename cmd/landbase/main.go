package main

import (
	"os"

	"horse.fit/landbase/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
