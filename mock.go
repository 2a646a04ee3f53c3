// Mock reflector client used in `client_test.go` and `scraper_test.go`
package presence

type MockClient struct {
	NextPoints Points
	NextErr    error
	hostname   string
	port       string
}

func (m *MockClient) GetPoints() (Points, error) {
	return m.NextPoints, m.NextErr
}

func (m *MockClient) Hostname() string {
	return m.hostname
}

func (m *MockClient) Port() string {
	return m.port
}
