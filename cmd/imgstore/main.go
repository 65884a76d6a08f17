// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/imgstore/cmd/imgstore/cmd"
)

func main() {
	cmd.Execute()
}
