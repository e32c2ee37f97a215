// Inbox digest server renders agent-written email summaries as a web page and exposes
// them through Model Context Protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hal9000y/inbox-digest/internal/agent"
	"github.com/hal9000y/inbox-digest/internal/auth"
	"github.com/hal9000y/inbox-digest/internal/config"
	"github.com/hal9000y/inbox-digest/internal/format"
	"github.com/hal9000y/inbox-digest/internal/inbox"
	"github.com/hal9000y/inbox-digest/internal/tool"
	"github.com/hal9000y/inbox-digest/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "inbox-digest",
		Short:        "Summarize the latest inbox emails through the email summary agent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd)
			if err != nil {
				return err
			}

			openPage, err := cmd.Flags().GetBool("open")
			if err != nil {
				return err
			}

			return run(cfg, openPage)
		},
	}

	config.RegisterFlags(rootCmd)
	rootCmd.Flags().Bool("open", false, "Open the digest page in the browser once the server is listening")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, openPage bool) error {
	persistLogs := setupLogger(cfg.Stdio, cfg.LogFile)
	defer persistLogs()

	scheme, err := auth.ParseScheme(cfg.Agent.AuthScheme)
	if err != nil {
		return fmt.Errorf("auth.ParseScheme failed: %w", err)
	}
	creds := auth.NewCredentials(cfg.Agent.APIKey, scheme)
	if _, err := creds.APIKey(); errors.Is(err, auth.ErrTokenNotSet) {
		log.Println("AGENT_API_KEY is not set, fetches will report a configuration error")
	}

	agentClient := agent.NewClient(cfg.Agent.URL, cfg.Agent.UserID, creds, cfg.Agent.Timeout)

	ctrl := inbox.NewController(agentClient, cfg.Agent.ID, cfg.MaxResults)
	page, err := web.NewHandler(ctrl, &format.Converter{}, time.Local)
	if err != nil {
		return fmt.Errorf("web.NewHandler failed: %w", err)
	}

	digestT := tool.NewServer(agentClient, cfg.Agent.ID)
	mcpHTTP := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return digestT }, nil)

	mux := http.NewServeMux()
	mux.Handle("/", page)
	mux.Handle("/agent/status", auth.NewHTTPHandler(creds, cfg.Agent.ID))
	mux.Handle("/mcp", mcpHTTP)

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("net.Listen failed: %w", err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	defer stopHTTP()

	if openPage {
		openBrowser(fmt.Sprintf("http://%s/", ln.Addr().String()))
	}

	var errStdioCh <-chan error
	if cfg.Stdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdio(digestT)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		log.Println("Error http server", err)
	case err := <-errStdioCh:
		log.Println("Error stdio", err)
	case <-shutdown:
		log.Println("Shutdown signal received")
	}

	return nil
}

func serveStdio(srv *mcp.Server) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Println("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			errStdioCh <- fmt.Errorf("srv.Run failed: %w", err)
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Println("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Println("Starting http server on", ln.Addr().String())

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errHTTPCh
		log.Println("HTTP server stopped")
	}, errHTTPCh
}

func setupLogger(enableStdio bool, logFile string) func() {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if enableStdio {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stdout)
	}

	return func() {}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please open %s\n", err, url)
	}
}
