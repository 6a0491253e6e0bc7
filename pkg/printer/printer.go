package printer

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"
)

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	Print(data []byte) error
	Close() error
	// IsConnected reports whether the device is reachable right now
	IsConnected() bool
}

// Types accepted by NewPrinterFromConfig.
const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
)

const (
	dialTimeout  = 5 * time.Second
	probeTimeout = 2 * time.Second
	writeTimeout = 10 * time.Second
)

// jobPrinter opens the device for every job and holds a lock while writing,
// so two receipts never interleave on the paper.
type jobPrinter struct {
	mu    sync.Mutex
	name  string
	open  func() (io.WriteCloser, error)
	probe func() bool
}

func (p *jobPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, err := p.open()
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.name, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("printer: write %s: %w", p.name, err)
	}
	return w.Close()
}

func (p *jobPrinter) Close() error { return nil }

func (p *jobPrinter) IsConnected() bool { return p.probe() }

// NewUSBPrinter writes jobs to a device file such as /dev/usb/lp0.
func NewUSBPrinter(devicePath string) Printer {
	return &jobPrinter{
		name: devicePath,
		open: func() (io.WriteCloser, error) {
			return os.OpenFile(devicePath, os.O_WRONLY, 0)
		},
		probe: func() bool {
			_, err := os.Stat(devicePath)
			return err == nil
		},
	}
}

// NewNetworkPrinter sends jobs over raw TCP, usually port 9100.
func NewNetworkPrinter(address string) Printer {
	return &jobPrinter{
		name: address,
		open: func() (io.WriteCloser, error) {
			conn, err := net.DialTimeout("tcp", address, dialTimeout)
			if err != nil {
				return nil, err
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			return conn, nil
		},
		probe: func() bool {
			conn, err := net.DialTimeout("tcp", address, probeTimeout)
			if err != nil {
				return false
			}
			_ = conn.Close()
			return true
		},
	}
}

type nullPrinter struct{}

// NewNullPrinter drops every job. It is used when no printer is configured.
func NewNullPrinter() Printer { return nullPrinter{} }

func (nullPrinter) Print([]byte) error { return nil }
func (nullPrinter) Close() error       { return nil }
func (nullPrinter) IsConnected() bool  { return false }

// NewPrinterFromConfig picks the printer for printerType. usbPath is the
// device file for usb printers, address the host:port of network printers.
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch strings.ToLower(strings.TrimSpace(printerType)) {
	case TypeUSB:
		if usbPath == "" {
			return nil, fmt.Errorf("printer: usb printer needs PRINTER_USB_PATH")
		}
		return NewUSBPrinter(usbPath), nil
	case TypeNetwork:
		if address == "" {
			return nil, fmt.Errorf("printer: network printer needs PRINTER_ADDRESS")
		}
		return NewNetworkPrinter(address), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network or none)", printerType)
	}
}
