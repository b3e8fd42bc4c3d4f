package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Kush-Singh-26/devserve/internal/server"
)

func main() {
	command := "serve"
	args := os.Args[1:]
	// Bare flags mean "serve".
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.Run(ctx, args); err != nil {
			stop()
			log.Fatal(err)
		}
	case "mime":
		os.Exit(handleMimeCommand(args, os.Stdout))
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: devserve [command] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve          Serve the current directory (default)")
	fmt.Println("  mime <path>... Show the Content-Type sent for each path")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for serve:")
	fmt.Println("  -host          The host/IP to bind to (default: all interfaces)")
	fmt.Println("  -port          The port to listen on (default: 8000)")
	fmt.Println("  -root          The directory to serve (default: .)")
	fmt.Println("  -config        Path to a devserve.yaml file")
	fmt.Println("  -watch         Push reload events on file changes")
	fmt.Println("  -verbose       Log every request")
}
