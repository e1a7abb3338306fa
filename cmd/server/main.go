package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/timosw/fanclash/internal/config"
	"github.com/timosw/fanclash/internal/game"
	"github.com/timosw/fanclash/internal/ws"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Fanclash - authoritative session server for the card game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 3001 or PORT env var)

Environment Variables:
  PORT              Port to listen on (default: 3001)
  MAX_PLAYERS_CAP   Upper bound on room size (default: 10)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Fanclash %s\n", version)
		return
	}

	cfg := config.FromEnv()

	// Determine port
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server + room registry
	rm := game.NewRoomManager(cfg.MaxPlayersCap)
	sock := ws.New(rm, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Room probe for clients that want to validate a code before connecting
	r.GET("/api/rooms/:code", func(c *gin.Context) {
		sess, err := rm.Lookup(c.Param("code"))
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		snap := sess.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"roomId":     snap.Code,
			"players":    len(snap.Players),
			"maxPlayers": snap.MaxPlayers,
			"phase":      snap.Phase,
		})
	})

	zerologlog.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}
