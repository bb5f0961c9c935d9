// Command qdbrepl is a thin shell around the qdb-core engine: it reads
// query-language lines, resolves them against an in-memory
// MemoryChannel, and prints the results.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/qdb-core/memory"
	"github.com/wbrown/qdb-core/resolver"
)

func main() {
	var interactive bool
	var help bool
	var verbose bool
	var queryStr string

	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&help, "h", false, "show help")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode (echo each query line to stderr before running it)")
	flag.StringVar(&queryStr, "query", "", "run a single query and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An in-memory temporal store with a small query language.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i                                        # interactive mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query 'onCreate(n)(c:int = 2)'          # run a single query\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -verbose -i                              # interactive with trace output\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	channel := memory.NewChannel()

	switch {
	case queryStr != "":
		runOne(channel, queryStr, verbose)
	case interactive:
		runInteractive(channel, verbose)
	default:
		runDemo(channel)
	}
}

func runOne(channel *memory.MemoryChannel, q string, verbose bool) {
	if verbose {
		traceQuery(q)
	}
	resp, err := resolver.Resolve(channel, q)
	if err != nil {
		log.Fatalf("query error: %v", err)
	}
	printResponse(resp)
}

func runInteractive(channel *memory.MemoryChannel, verbose bool) {
	fmt.Println("=== qdb-core interactive mode ===")
	fmt.Println("Commands:")
	fmt.Println("  .help                          - show this help")
	fmt.Println("  .exit                          - exit")
	fmt.Println("  onCreate(chan)(name:type = v)  - create/extend a channel")
	fmt.Println("  onRead(chan)(sym op literal)   - read correlated snapshots")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case ".exit":
			return
		case ".help":
			fmt.Println("onCreate(chan)(name:type = literal, ...)  |  onRead(chan)(symbol op literal, ...)")
			continue
		}

		if verbose {
			traceQuery(line)
		}
		resp, err := resolver.Resolve(channel, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printResponse(resp)
	}
}

func runDemo(channel *memory.MemoryChannel) {
	fmt.Println("=== qdb-core demo ===")
	queries := []string{
		`onCreate(my_node)(c:int = 2)`,
		`onRead(my_node)(c > 0)`,
		`onCreate(my_node)(my_val:int = 101, my_val2:int = 64)`,
		`onCreate(my_node)(my_val:int = 101, my_val2:int = 32, my_val3:int = 32)`,
		`onRead(my_node)(my_val == 101)`,
	}
	for _, q := range queries {
		fmt.Printf("\n> %s\n", q)
		resp, err := resolver.Resolve(channel, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printResponse(resp)
	}
}

// traceQuery highlights the query line about to run, for -verbose mode.
func traceQuery(q string) {
	fn := color.New(color.FgCyan, color.Bold)
	fn.Fprintf(os.Stderr, "trace: ")
	fmt.Fprintln(os.Stderr, q)
}

func printResponse(resp resolver.Response) {
	if resp.Empty {
		fmt.Println("(no result)")
		return
	}
	if len(resp.Snapshots) == 0 {
		fmt.Println("(empty)")
		return
	}
	memory.SortSnapshots(resp.Snapshots)

	var sb strings.Builder
	table := tablewriter.NewTable(&sb,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"variable", "values"})
	for _, snap := range resp.Snapshots {
		parts := make([]string, len(snap.Values))
		for i, v := range snap.Values {
			parts[i] = v.String()
		}
		table.Append([]string{snap.Name, strings.Join(parts, ", ")})
	}
	table.Render()
	fmt.Print(sb.String())
}
