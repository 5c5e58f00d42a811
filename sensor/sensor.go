// Package sensor is the boundary to the DHT11 driver. The driver signals a
// failed transfer either through an error or through non-finite measurement
// values; both are folded into ErrReadFailure here so callers only ever see a
// Reading that is fully valid.
package sensor

import (
	"errors"
	"fmt"
	"math"

	dht "github.com/MichaelS11/go-dht"
	logger "github.com/d2r2/go-logger"
	"github.com/davecgh/go-spew/spew"
)

var lg = logger.NewPackageLogger("sensor", logger.InfoLevel)

// ErrReadFailure is returned when a poll did not produce a usable sample.
// No distinction is made between the humidity and temperature channels.
var ErrReadFailure = errors.New("humidity or temperature read error")

// Reading is one paired humidity/temperature sample from a single poll.
type Reading struct {
	Humidity    float64 // relative humidity, percent
	Temperature float64 // degrees Celsius
}

// String renders the reading as one report line, values to two decimals.
func (r Reading) String() string {
	return fmt.Sprintf("Humidity: %.2f %%\tTemperature: %.2f *C", r.Humidity, r.Temperature)
}

// Device owns the association between a GPIO pin and a sensor model.
// Create it once with Open and keep it for the life of the process.
type Device struct {
	dht *dht.DHT
}

// Open binds the driver to the sensor data line. pin is a periph pin name
// such as "GPIO2"; model is "dht11" for DHT11, anything else for DHT22.
// periph's host must be initialized before calling Open.
func Open(pin, model string) (*Device, error) {
	d, err := dht.NewDHT(pin, dht.Celsius, model)
	if err != nil {
		return nil, fmt.Errorf("dht init error: %v", err)
	}
	return &Device{dht: d}, nil
}

// Read performs one poll. The driver enforces the sensor's minimum spacing
// between transfers internally.
func (d *Device) Read() (Reading, error) {
	humidity, temperature, err := d.dht.Read()
	return fromDriver(humidity, temperature, err)
}

// fromDriver converts the driver's value-or-sentinel outcome into a Reading
// or ErrReadFailure. A sample is kept only if both channels are finite.
func fromDriver(humidity, temperature float64, err error) (Reading, error) {
	if err != nil {
		lg.Debugf("driver read failed: %v", err)
		return Reading{}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	if !finite(humidity) || !finite(temperature) {
		lg.Debug(spew.Sprintf("discarding partial sample: humidity=%v temperature=%v",
			humidity, temperature))
		return Reading{}, ErrReadFailure
	}
	return Reading{Humidity: humidity, Temperature: temperature}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
