// Scraper pulls stats from reflectors and writes them to the
// indicated database.
package presence

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	influxdb_client "github.com/influxdata/influxdb1-client/v2"
)

// Set default timeout for writes to 5 seconds
const DefaultWriteTimeout = time.Second * 5

// InfluxDbWriter is used for writing datapoints to an InfluxDB
// instance.
type InfluxDbWriter struct {
	client influxdb_client.Client
	db     string
}

// NewInfluxDbWriter provides a client for writing reflector datapoints
// to InfluxDB.
func NewInfluxDbWriter(host string, port string, user string, pass string, db string) (*InfluxDbWriter, error) {
	url := fmt.Sprintf("http://%v:%v", host, port)
	log.Println("Creating InfluxDB writer for", url)
	ifdbc, err := influxdb_client.NewHTTPClient(influxdb_client.HTTPConfig{
		Addr:     url,
		Username: user,
		Password: pass,
		Timeout:  DefaultWriteTimeout,
	})
	if err != nil {
		return &InfluxDbWriter{}, err
	}

	writer := &InfluxDbWriter{
		client: ifdbc,
		db:     db,
	}
	return writer, nil
}

// Close will close the InfluxDB client connection and release any
// associated resources.
func (w *InfluxDbWriter) Close() error {
	log.Println("Closing InfluxDB client connection")
	return w.client.Close()
}

// Write will commit the batched points to the database.
func (w *InfluxDbWriter) Write(batch influxdb_client.BatchPoints) error {
	start := time.Now()
	err := w.client.Write(batch)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		log.Println("DB write failed after:", elapsed, "seconds")
		return err
	}
	log.Println("DB write completed in:", elapsed, "seconds")
	return nil
}

// Batch will group the points into a batch for writing to the
// database.
func (w *InfluxDbWriter) Batch(points Points) (influxdb_client.BatchPoints, error) {
	bp, err := influxdb_client.NewBatchPoints(influxdb_client.BatchPointsConfig{
		Database:  w.db,
		Precision: "s", // Second precision is plenty for counters
	})
	if err != nil {
		return nil, err
	}

	for _, dp := range points {
		// The InfluxDB client expects interface{} field values
		newFields := make(map[string]interface{})
		for key, value := range dp.Fields {
			newFields[key] = float64(value)
		}
		pt, err := influxdb_client.NewPoint(
			dp.Measurement,
			dp.Tags,
			newFields,
			dp.Time,
		)
		if err != nil {
			return nil, err
		}
		bp.AddPoint(pt)
	}
	return bp, nil
}

// BatchWrite will group and write the indicated points to the
// associated InfluxDB host.
func (w *InfluxDbWriter) BatchWrite(points Points) error {
	batch, err := w.Batch(points)
	if err != nil {
		return errors.New(fmt.Sprintln("Failed to create batch from points:", err))
	}
	err = w.Write(batch)
	if err != nil {
		return errors.New(fmt.Sprintln("Failed to write batch:", err))
	}
	return nil
}

// Scraper pulls stats from reflectors and writes them to a backend.
type Scraper struct {
	writer *InfluxDbWriter
	relays []Client
	port   string
}

// NewScraper creates and initializes a means of collecting stats from
// reflectors and writing them to a database.
func NewScraper(relays []string, rPort string, dbHost string, dbPort string, dbUser string, dbPass string, dbName string) (*Scraper, error) {
	var clients []Client
	for _, relay := range relays {
		c := NewClient(relay, rPort)
		clients = append(clients, c)
	}
	w, err := NewInfluxDbWriter(dbHost, dbPort, dbUser, dbPass, dbName)
	if err != nil {
		return &Scraper{}, err
	}
	s := &Scraper{
		writer: w,
		relays: clients,
		port:   rPort,
	}
	return s, nil
}

// Close releases the underlying database connection.
func (s *Scraper) Close() error {
	return s.writer.Close()
}

// Run performs collections for all associated reflectors.
func (s *Scraper) Run() {
	log.Println("Collection cycle starting")
	var wg sync.WaitGroup
	for _, relay := range s.relays {
		wg.Add(1)
		go func(c Client) {
			defer wg.Done()
			s.run(c)
		}(relay)
	}
	wg.Wait()
	log.Println("Collection cycle complete")
}

func (s *Scraper) run(relay Client) error {
	log.Println(relay.Hostname(), "- Collection cycle started")
	points, err := relay.GetPoints()
	if err != nil {
		log.Println(relay.Hostname(), "- Collection failed:", err)
		return err
	}
	log.Println(relay.Hostname(), "- Pulled datapoints:", len(points))
	err = s.writer.BatchWrite(points)
	if err != nil {
		log.Println(relay.Hostname(), "- Collection failed:", err)
		return err
	}
	log.Println(relay.Hostname(), "- Collection cycle completed")
	return nil
}
