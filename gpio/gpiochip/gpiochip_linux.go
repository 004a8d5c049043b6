//go:build linux

package gpiochip

import (
	"fmt"
	"unsafe"

	"github.com/Alia5/PSXPAD/gpio"
	"github.com/Alia5/PSXPAD/psx"

	"golang.org/x/sys/unix"
)

const DefaultDevice = "/dev/gpiochip0"

// GPIO uAPI v2 ioctl numbers and line flags (linux/gpio.h).
const (
	gpioV2GetLineIoctl       = 0xC250B407 // GPIO_V2_GET_LINE_IOCTL
	gpioV2LineGetValuesIoctl = 0xC010B40E // GPIO_V2_LINE_GET_VALUES_IOCTL
	gpioV2LineSetValuesIoctl = 0xC010B40F // GPIO_V2_LINE_SET_VALUES_IOCTL

	flagInput      = 1 << 2 // GPIO_V2_LINE_FLAG_INPUT
	flagOutput     = 1 << 3 // GPIO_V2_LINE_FLAG_OUTPUT
	flagBiasPullUp = 1 << 8 // GPIO_V2_LINE_FLAG_BIAS_PULL_UP
)

const consumerName = "psxpad"

// struct gpio_v2_line_config_attribute
type lineConfigAttr struct {
	ID      uint32
	Padding uint32
	Value   uint64
	Mask    uint64
}

// struct gpio_v2_line_config
type lineConfig struct {
	Flags    uint64
	NumAttrs uint32
	Padding  [5]uint32
	Attrs    [10]lineConfigAttr
}

// struct gpio_v2_line_request
type lineRequest struct {
	Offsets         [64]uint32
	Consumer        [32]byte
	Config          lineConfig
	NumLines        uint32
	EventBufferSize uint32
	Padding         [5]uint32
	Fd              int32
}

// struct gpio_v2_line_values
type lineValues struct {
	Bits uint64
	Mask uint64
}

func init() {
	psx.RegisterBackend("gpiochip", Open)
}

// Open requests the five controller lines from the chip named in cfg.Device
// (DefaultDevice when empty) and returns a bit-bang transport over them.
func Open(cfg psx.BackendConfig) (psx.Transport, error) {
	device := cfg.Device
	if device == "" {
		device = DefaultDevice
	}
	chipFd, err := unix.Open(device, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	t := &transport{chipFd: chipFd}
	fail := func(err error) (psx.Transport, error) {
		_ = t.Close()
		return nil, err
	}

	clock, err := t.requestLine(cfg.ClockLine, flagOutput)
	if err != nil {
		return fail(fmt.Errorf("request clock line %d: %w", cfg.ClockLine, err))
	}
	command, err := t.requestLine(cfg.CommandLine, flagOutput)
	if err != nil {
		return fail(fmt.Errorf("request command line %d: %w", cfg.CommandLine, err))
	}
	attention, err := t.requestLine(cfg.AttentionLine, flagOutput)
	if err != nil {
		return fail(fmt.Errorf("request attention line %d: %w", cfg.AttentionLine, err))
	}
	data, err := t.requestLine(cfg.DataLine, flagInput|flagBiasPullUp)
	if err != nil {
		return fail(fmt.Errorf("request data line %d: %w", cfg.DataLine, err))
	}
	ack, err := t.requestLine(cfg.AckLine, flagInput|flagBiasPullUp)
	if err != nil {
		return fail(fmt.Errorf("request ack line %d: %w", cfg.AckLine, err))
	}

	t.BitBang = psx.NewBitBang(gpio.Pins{
		Clock:     clock,
		Command:   command,
		Attention: attention,
		Data:      data,
		Ack:       ack,
	}, nil, cfg.Frames)
	return t, nil
}

type transport struct {
	*psx.BitBang
	chipFd  int
	lineFds []int
}

func (t *transport) Close() error {
	var first error
	for _, fd := range t.lineFds {
		if err := unix.Close(fd); err != nil && first == nil {
			first = err
		}
	}
	t.lineFds = nil
	if t.chipFd >= 0 {
		if err := unix.Close(t.chipFd); err != nil && first == nil {
			first = err
		}
		t.chipFd = -1
	}
	return first
}

func (t *transport) requestLine(offset int, flags uint64) (*line, error) {
	req := lineRequest{NumLines: 1}
	req.Offsets[0] = uint32(offset)
	copy(req.Consumer[:], consumerName)
	req.Config.Flags = flags
	if err := ioctl(t.chipFd, gpioV2GetLineIoctl, unsafe.Pointer(&req)); err != nil {
		return nil, err
	}
	t.lineFds = append(t.lineFds, int(req.Fd))
	return &line{fd: int(req.Fd)}, nil
}

// line is a single requested GPIO line. Set and Get swallow ioctl errors:
// they sit inside the bit-banged hot path, and a dead line shows up one
// layer up as a missing acknowledge anyway.
type line struct {
	fd int
}

func (l *line) Set(high bool) {
	v := lineValues{Mask: 1}
	if high {
		v.Bits = 1
	}
	_ = ioctl(l.fd, gpioV2LineSetValuesIoctl, unsafe.Pointer(&v))
}

func (l *line) Get() bool {
	v := lineValues{Mask: 1}
	if err := ioctl(l.fd, gpioV2LineGetValuesIoctl, unsafe.Pointer(&v)); err != nil {
		// Read the pulled-up idle level on failure.
		return true
	}
	return v.Bits&1 != 0
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
