package presence

import (
	"fmt"
	"time"
)

// IDBFloat64 is to allow custom JSON marshalling in the API, so it
// actually formats like a float consistently. Otherwise a whole-number
// counter turns into an int along the way and makes InfluxDB angry.
type IDBFloat64 float64

func (n IDBFloat64) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%f", n)), nil
}

// DataPoint represents a single "point" of data for InfluxDB.
type DataPoint struct {
	Fields      map[string]IDBFloat64 `json:"fields"`
	Tags        Tags                  `json:"tags"`
	Time        time.Time             `json:"time"`
	Measurement string                `json:"measurement"`
}

// Points is a collection of DataPoints.
type Points []DataPoint

// SetFieldUint64 sets the value of "field" k to the value v.
func (dp *DataPoint) SetFieldUint64(k string, v uint64) {
	dp.Fields[k] = IDBFloat64(v)
}

// SetFieldInt sets the value of "field" k to the value v.
func (dp *DataPoint) SetFieldInt(k string, v int) {
	dp.Fields[k] = IDBFloat64(v)
}

// NewDataPoint builds the "reflector_stats" point for one stats
// snapshot, tagged with t.
func NewDataPoint(snap StatsSnapshot, tableSize int, t Tags) *DataPoint {
	dp := &DataPoint{
		Tags:        make(Tags),                  // Also to avoid nil
		Fields:      make(map[string]IDBFloat64), // Also to avoid nil
		Time:        time.Now(),
		Measurement: "reflector_stats",
	}
	dp.SetFieldUint64("received", snap.Received)
	dp.SetFieldUint64("accepted", snap.Accepted)
	dp.SetFieldUint64("rejected", snap.Rejected)
	dp.SetFieldUint64("reflected", snap.Reflected)
	dp.SetFieldUint64("evicted", snap.Evicted)
	dp.SetFieldUint64("send_errors", snap.SendErrors)
	dp.SetFieldInt("table_size", tableSize)
	dp.Tags.Merge(t)
	return dp
}
