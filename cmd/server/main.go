package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickyhof/FlatDB"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/logger"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	defaultData := os.Getenv("FLATDB_DATA")
	if defaultData == "" {
		defaultData = "mem://"
	}

	port := flag.Int("port", 3306, "TCP port to listen on")
	httpPort := flag.Int("httpPort", 8080, "HTTP API port (0 disables the HTTP API)")
	data := flag.String("data", defaultData, "Storage data source (mem://, git://dir, pebble://dir, s3://bucket/prefix, or a directory)")
	userName := flag.String("name", DefaultIdentity.Name, "Identity recorded with writes when auth is disabled")
	userEmail := flag.String("email", DefaultIdentity.Email, "Email recorded with writes when auth is disabled")
	jwtSecret := flag.String("jwtSecret", os.Getenv("FLATDB_JWT_SECRET"), "HS256 secret; enables AUTH JWT when set")
	jwtIssuer := flag.String("jwtIssuer", "", "Expected JWT issuer (optional)")
	tlsCert := flag.String("tlsCert", "", "TLS certificate file")
	tlsKey := flag.String("tlsKey", "", "TLS key file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("FlatDB SQL Server v%s\n", Version)
		return
	}

	instance, err := FlatDB.OpenDSN(context.Background(), *data)
	if err != nil {
		logger.Error("failed to open storage", "data", *data, "error", err)
		os.Exit(1)
	}
	defer instance.Close()
	logger.Info("storage opened", "data", *data)

	identity := core.Identity{Name: *userName, Email: *userEmail}

	var server *Server
	if *jwtSecret != "" {
		server = NewServerWithAuth(instance, &AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
			Issuer:    *jwtIssuer,
		})
	} else {
		server = NewServer(instance, identity)
	}

	addr := fmt.Sprintf(":%d", *port)
	if *tlsCert != "" && *tlsKey != "" {
		err = server.StartTLS(addr, *tlsCert, *tlsKey)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	if *httpPort != 0 {
		if err := server.StartHTTP(fmt.Sprintf(":%d", *httpPort)); err != nil {
			logger.Error("failed to start HTTP API", "error", err)
			os.Exit(1)
		}
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   FlatDB SQL Server v%-16s ║\n", Version)
	fmt.Println("║   SQL over delimited text tables      ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", *port)
	fmt.Println("Send SQL statements (one per line), 'quit' to disconnect")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	server.Stop()
	logger.Info("server stopped")
}
