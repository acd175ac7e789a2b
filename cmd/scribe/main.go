package main

import (
	"meetscribe/cmd/scribe/cmd"
)

func main() {
	cmd.Execute()
}
