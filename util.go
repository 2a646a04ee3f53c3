package presence

import (
	"log"

	uuid "github.com/satori/go.uuid"
)

// Fallback socket receive buffer size when the config leaves it unset
const DefaultRcvBuff = 2097600 // 2MiB

// NewID returns a fresh UUID4 string.
//
// Used to identify a reflector instance in logs and exported stats, so
// restarts are distinguishable when several relays feed one database.
func NewID() string {
	fullUUID := uuid.NewV4()
	return fullUUID.String()
}

func HandleError(err error) {
	HandleFatalError(err)
}

// HandleMinorError logs the error, if there is one, and carries on.
func HandleMinorError(err error) {
	if err != nil {
		log.Println("ERROR: ", err)
	}
}

// HandleFatalError receives an error, then logs and exits if not nil.
func HandleFatalError(err error) {
	if err != nil {
		log.Fatal("ERROR: ", err)
	}
}
