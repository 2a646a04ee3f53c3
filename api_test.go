package presence

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAPI(t *testing.T) (*API, *Reflector) {
	r, _ := newTestReflector(nil)
	api := NewAPI(r, Tags{"relay_id": r.ID}, "127.0.0.1:0")
	return api, r
}

func TestStatusHandler(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := httptest.NewRecorder()
	api.StatusHandler(rec, httptest.NewRequest("GET", "/status", nil))
	if rec.Code != http.StatusOK {
		t.Error("Expected 200 from /status, got", rec.Code)
	}
	body, _ := ioutil.ReadAll(rec.Body)
	if string(body) != "ok" {
		t.Error("Unexpected /status body:", string(body))
	}
}

func TestInfluxHandler(t *testing.T) {
	api, r := newTestAPI(t)
	// Run one accepted packet through so the counters are non-zero
	sender := resolveAddr(t, "10.0.0.1:4444")
	r.handle([]byte("P"), sender, time.Now())

	rec := httptest.NewRecorder()
	api.InfluxHandler(rec, httptest.NewRequest("GET", "/influxdata", nil))
	if rec.Code != http.StatusOK {
		t.Fatal("Expected 200 from /influxdata, got", rec.Code)
	}
	var points Points
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatal("Couldn't parse /influxdata response:", err)
	}
	if len(points) != 1 {
		t.Fatal("Expected 1 datapoint, got", len(points))
	}
	dp := points[0]
	if dp.Fields["received"] != 1 || dp.Fields["accepted"] != 1 {
		t.Error("Counters not reported:", dp.Fields)
	}
	if dp.Fields["table_size"] != 1 {
		t.Error("Table size not reported:", dp.Fields)
	}
	if dp.Tags["relay_id"] != r.ID {
		t.Error("Relay id tag missing from datapoint")
	}
}

func TestMergeUpdateTags(t *testing.T) {
	api, _ := newTestAPI(t)
	api.MergeUpdateTags(Tags{"cluster": "cache-east"})

	rec := httptest.NewRecorder()
	api.InfluxHandler(rec, httptest.NewRequest("GET", "/influxdata", nil))
	var points Points
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatal(err)
	}
	if points[0].Tags["cluster"] != "cache-east" {
		t.Error("Merged tag missing from datapoint")
	}
}
