// Client for pulling stats from reflector APIs.
package presence

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
)

/*
A sample datapoint looks like this:

{
    "fields": {
        "received": 1200.0,
        "accepted": 980.0,
        "rejected": 220.0,
        "reflected": 46000.0,
        "evicted": 3.0,
        "send_errors": 0.0,
        "table_size": 72.0
    },
    "tags": {
        "cluster": "cache-east",
        "relay_id": "b1946ac9-..."
    },
    "time": 1478807831000000000,
    "measurement": "reflector_stats"
}
*/

type Getter = func(url string) (resp *http.Response, err error)

// Client is an interface for pulling stats from reflectors.
type Client interface {
	GetPoints() (Points, error)
	Hostname() string
	Port() string
}

type client struct {
	hostname string
	port     string
	getFunc  Getter
}

// NewClient creates a new reflector client with hostname and port.
func NewClient(hostname string, port string) *client {
	return &client{hostname: hostname, port: port, getFunc: http.Get}
}

func (c *client) Hostname() string {
	return c.hostname
}

func (c *client) Port() string {
	return c.port
}

// GetPoints will fetch data points from the associated reflector.
func (c *client) GetPoints() (Points, error) {
	url := fmt.Sprintf("http://%s:%s/influxdata", c.hostname, c.port)

	resp, err := c.getFunc(url)
	if err != nil {
		return Points{}, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return Points{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Status: %s (%s)", resp.Status, body)
	}

	var response Points
	err = json.Unmarshal(body, &response)
	if err != nil {
		return Points{}, err
	}

	return response, nil
}
