package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"

	presence "github.com/distribcache/go-presence"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

var configFile = flag.String("config", "", "Config file to load from")
var bind = flag.String("bind", "", "Override the listen address, e.g. 0.0.0.0:4444")

// If this rate is exceeded, buffering will occur, and latency will be
// impacted. If severe enough, there's a possibility of drops. This
// exists to limit the reflector's ability to utilize CPU resources.
var maxPPS = flag.Float64("max-pps", 0, "Override the rate limit on inbound packets per second")

func main() {
	flag.Parse()

	cfg := loadConfig()
	if *bind != "" {
		cfg.Listen.Bind = *bind
	}
	if *maxPPS > 0 {
		cfg.Limits.MaxPPS = *maxPPS
	}

	myAddr, err := cfg.Listen.ResolveUDPAddr()
	presence.HandleError(err)

	// Failing to bind the port is the one fatal condition; the relay
	// cannot run without it.
	conn, err := net.ListenUDP("udp", myAddr)
	presence.HandleError(err)
	defer func(c *net.UDPConn) {
		err := c.Close()
		if err != nil {
			log.Fatal(err)
		}
	}(conn)

	// Increase the buffer size, since the default doesn't scale
	if cfg.Listen.RecvBuffer == 0 {
		cfg.Listen.RecvBuffer = presence.DefaultRcvBuff
	}
	err = conn.SetReadBuffer(cfg.Listen.RecvBuffer)
	presence.HandleError(err)

	// Create the rate limiter used to pace the receive loop.
	// NOTE: This has the potential to be spikey if there are gaps
	//     between processing periods. So it's somewhat reliant on a
	//     smooth stream of incoming presence packets.
	rateLimiter := rate.NewLimiter(rate.Limit(cfg.Limits.MaxPPS), int(cfg.Limits.MaxPPS))

	reflector := presence.NewReflector(conn, cfg, rateLimiter)
	log.Println("Reflector instance:", reflector.ID)

	// Serve stats over HTTP, tagged with the instance id so multiple
	// relays can feed one database.
	tags := presence.Tags{"relay_id": reflector.ID}
	tags.Merge(cfg.Tags)
	api := presence.NewAPI(reflector, tags, cfg.API.Bind)
	api.Run()

	// Begin reflecting
	go reflector.Reflect()

	// Handle signals for stopping
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, unix.SIGINT, unix.SIGTERM)
	sig := <-sigChan
	log.Printf("Received %s, shutting down", sig)
	// No durable state to flush; just stop answering.
	api.Stop()
}

func loadConfig() *presence.ReflectorConfig {
	if *configFile != "" {
		cfg, err := presence.NewReflectorConfigFromPath(*configFile)
		if err != nil {
			log.Fatal("Failed to load configuration:", err)
		}
		return cfg
	}
	log.Println("No config provided; loading default config")
	cfg, err := presence.NewDefaultReflectorConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	return cfg
}
