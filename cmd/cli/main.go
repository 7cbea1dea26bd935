// Command cli is an interactive read-only query client for an RMI TCP
// server: lookup/lower_bound/upper_bound plus a small SQL WHERE-clause
// front end over pkg/sql.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"rmindex/pkg/client"
	"rmindex/pkg/sql"
)

const Prompt = "rmindex> "

func main() {
	serverAddr := flag.String("addr", "localhost:9090", "RMI TCP server address")
	flag.Parse()

	fmt.Printf("RMI CLI (Target: %s)\n", *serverAddr)
	fmt.Println("Connecting...")

	cli, err := client.Dial(*serverAddr)
	if err != nil {
		fmt.Printf("Connection failed: %v\n", err)
		fmt.Println("Tip: Ensure the server is running (e.g. go run cmd/server/main.go).")
		return
	}
	defer cli.Close()
	fmt.Println("Connected! Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "lookup":
			handleQuery(cli, parts, cli.Lookup)
		case "lower_bound":
			handleQuery(cli, parts, cli.LowerBound)
		case "upper_bound":
			handleQuery(cli, parts, cli.UpperBound)
		case "select":
			handleSQL(cli, line)
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
		}
	}
}

func handleQuery(cli *client.Client, parts []string, query func(float64) (int, error)) {
	if len(parts) < 2 {
		fmt.Println("Usage: <command> <key>")
		return
	}
	key, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		fmt.Println("Error: key must be numeric")
		return
	}

	start := time.Now()
	pos, err := query(key)
	duration := time.Since(start)

	if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Printf("%d (%v)\n", pos, duration)
	}
}

// rangeClient adapts client.Client's (int, error)-returning methods to
// sql.RangeIndex's (int)-only signature; a query error is treated as "no
// match" rather than panicking the CLI.
type rangeClient struct{ cli *client.Client }

func (r rangeClient) LowerBound(key float64) int {
	pos, err := r.cli.LowerBound(key)
	if err != nil {
		return 0
	}
	return pos
}

func (r rangeClient) UpperBound(key float64) int {
	pos, err := r.cli.UpperBound(key)
	if err != nil {
		return 0
	}
	return pos
}

func handleSQL(cli *client.Client, line string) {
	stmt, err := sql.Parse(line)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	n, err := cli.UpperBound(math.MaxFloat64) // largest representable key: total record count
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	start, end, exact := stmt.Range(rangeClient{cli}, n)
	if !exact {
		fmt.Println("Note: '!=' is not a contiguous range; results below are the full scanned window.")
	}
	if stmt.Limit >= 0 && end-start > stmt.Limit {
		end = start + stmt.Limit
	}
	fmt.Printf("Matched positions [%d, %d)\n", start, end)
}

func printHelp() {
	fmt.Println(`
Commands:
  lookup <key>              Position of the first record with this key (synonym for lower_bound)
  lower_bound <key>         First position i with key[i] >= key
  upper_bound <key>         First position i with key[i] > key
  select * from t where id <op> <n> [limit n]   Position window matching a WHERE clause
  exit                      Exit CLI
	`)
}
