// Package serial provides an optional serial-port symbol source for
// cmd/tetradl: a serial-connected demodulator emitting one byte per
// hard-decision symbol. It is kept outside the core decoder, which never
// depends on anything beyond decoder.RxSymbol/RxStream, per §1.
package serial

import (
	"errors"
	"io"

	"github.com/jacobsa/go-serial/serial"
)

// NoPEIFound is returned by FindRadioPortName when no matching serial
// device is attached.
var NoPEIFound = errors.New("no demodulator device found")

// Open opens portName as a raw byte stream at the demodulator's baud rate.
func Open(portName string) (io.ReadWriteCloser, error) {
	portConfig := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              38400,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       1,
		InterCharacterTimeout: 100,
	}

	return serial.Open(portConfig)
}
