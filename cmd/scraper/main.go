// Scraper pulls stats from reflectors and writes them to the indicated database.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	presence "github.com/distribcache/go-presence"
)

// Flags
var interval = flag.Int64("interval", 30, "How often to pull stats from reflectors, in seconds")
var influxdbHost = flag.String("influxdb-host", "127.0.0.1", "The ip of the host running the InfluxDB server")
var influxdbPort = flag.String("influxdb-port", "5086", "The port the InfluxDB server is listening on")
var influxdbDb = flag.String("influxdb-name", "presence", "The InfluxDB database name")
var relayPort = flag.String("relay-port", "5000", "The port reflector APIs are listening on")
var relayHosts = flag.String("relay-hosts", "", "Comma-separated list of hostnames/IP addresses for reflectors")
var influxdbUser = flag.String("influxdb-user", "", "The name of the user to use with InfluxDB")
var influxdbPass = flag.String("influxdb-pass", "", "The password to use with InfluxDB")

func main() {
	flag.Parse()

	// Make sure we have some reflectors
	if *relayHosts == "" {
		log.Fatal("No reflectors provided; aborting")
	}
	relays := strings.Split(*relayHosts, ",")

	scraper, err := presence.NewScraper(relays, *relayPort, *influxdbHost, *influxdbPort, *influxdbUser, *influxdbPass, *influxdbDb)
	if err != nil {
		log.Fatalln("Unable to create scraper: ", err)
	}
	defer scraper.Close()

	// Setup a timer, and perform collections each tick
	log.Println("Starting ticker for collection every", *interval, "seconds")
	for now := range time.Tick(time.Duration(*interval) * time.Second) {
		log.Println("Starting collection at tick:", now)
		scraper.Run()
	}
}
