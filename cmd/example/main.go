// Command example is a minimal SDK usage demo: dial a running server and
// issue a lookup.
package main

import (
	"fmt"
	"log"
	"time"

	"rmindex/pkg/client"
)

func main() {
	fmt.Println("Connecting to RMI server...")
	cli, err := client.Dial("localhost:9090")
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer cli.Close()

	key := 10086.0

	fmt.Printf("Looking up key=%v...\n", key)
	start := time.Now()
	pos, err := cli.Lookup(key)
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}
	fmt.Printf("Position: %d (in %v)\n", pos, time.Since(start))
}
