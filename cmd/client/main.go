// Command client is a terminal client for the card table server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

var addr = flag.String("addr", "localhost:8080", "the server address")

func main() {
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		pterm.Error.Printfln("could not connect to %s: %v", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	pterm.DefaultHeader.Println("Card Table")

	done := make(chan struct{})
	go func() {
		defer close(done)

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "Dealer"):
				pterm.Info.Println(line)
			case strings.Contains(line, "your turn"):
				pterm.Success.Println(line)
			case strings.Contains(line, "valid bet") || strings.Contains(line, "can't bet"):
				pterm.Warning.Println(line)
			default:
				pterm.Println(line)
			}
		}

		pterm.Warning.Println("disconnected from server")
	}()

	go func() {
		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			if _, err := fmt.Fprintln(conn, stdin.Text()); err != nil {
				return
			}
		}
	}()

	<-done
}
