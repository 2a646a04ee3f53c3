package presence

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// API represents the HTTP server answering queries for relay stats.
type API struct {
	reflector *Reflector
	server    *http.Server
	tags      Tags
	handler   *http.ServeMux
	mutex     sync.RWMutex
}

// InfluxHandler handles requests for InfluxDB formatted stats.
func (api *API) InfluxHandler(rw http.ResponseWriter, request *http.Request) {
	snap := api.reflector.Stats().Snapshot()
	size := api.reflector.Contacts().Size()
	api.mutex.RLock()
	points := Points{*NewDataPoint(snap, size, api.tags)}
	api.mutex.RUnlock()

	asJson, err := json.Marshal(points)
	if err != nil {
		log.Println(err)
		rw.WriteHeader(500)
		return
	}
	rw.Write(asJson)
}

// StatusHandler acts as a basic healthcheck and simply returns 200 OK.
func (api *API) StatusHandler(rw http.ResponseWriter, request *http.Request) {
	fmt.Fprintf(rw, "ok")
}

// MergeUpdateTags combines provided Tags with the existing ones.
func (api *API) MergeUpdateTags(t Tags) {
	api.mutex.Lock()
	api.tags.Merge(t)
	api.mutex.Unlock()
}

// Stop will close down the server and cause RunForever to exit.
func (api *API) Stop() {
	err := api.server.Close()
	if err != nil {
		log.Println("Error stopping API:", err)
	}
	log.Println("API Stopped")
}

// Run calls RunForever in a separate goroutine for non-blocking
// behavior.
func (api *API) Run() {
	go api.RunForever()
}

// RunForever sets up the handlers above and then listens for requests
// until stopped or a fatal error occurs.
//
// Calling this will block until stopped/crashed.
func (api *API) RunForever() {
	api.setupHandlers()
	log.Fatal(api.server.ListenAndServe())
}

func (api *API) setupHandlers() {
	api.handler.HandleFunc("/status", api.StatusHandler)
	api.handler.HandleFunc("/influxdata", api.InfluxHandler)
}

// NewAPI returns an initialized API struct serving stats for r.
func NewAPI(r *Reflector, t Tags, addr string) *API {
	handler := http.NewServeMux()
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	if t == nil {
		t = make(Tags)
	}
	return &API{reflector: r, tags: t, handler: handler, server: server}
}
