package main

import "pixelgram-backend/cmd"

func main() {
	cmd.Run()
}
