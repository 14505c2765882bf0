package main

import (
	"github.com/soocke/obb-label-go/cmd"
)

func main() {
	cmd.Execute(NewLogger)
}
