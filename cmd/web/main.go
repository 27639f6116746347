package main

import "suvix_backend/internal/app"

func main() {
	app.Run()
}
