package main

import (
	"io"
	"os"

	"github.com/tarm/serial"
)

// consoleBaud is the fixed rate of the report console.
const consoleBaud = 9600

// openConsole picks where report lines go. With -console set they are written
// to the serial device at 9600 baud, otherwise stdout. The returned func
// releases the device.
func openConsole(port string) (io.Writer, func() error, error) {
	if port == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	c := &serial.Config{Name: port, Baud: consoleBaud}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}
