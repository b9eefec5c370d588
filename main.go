package main

import (
	"fmt"

	"github.com/forkline/order-events-service/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Println(err.Error())
		return
	}
}
