// Command readonce performs a single sensor read and prints the raw values.
// Wiring check utility; the monitor itself lives at the repository root.
package main

import (
	"fmt"
	"log"

	"periph.io/x/periph/host"

	"github.com/sensormon/dht11_monitor/sensor"
)

func main() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	dev, err := sensor.Open("GPIO2", "dht11")
	if err != nil {
		log.Fatal(err)
	}
	r, err := dev.Read()
	if err != nil {
		fmt.Println("Read error:", err)
		return
	}

	fmt.Printf("humidity: %v\n", r.Humidity)
	fmt.Printf("temperature: %v\n", r.Temperature)
}
