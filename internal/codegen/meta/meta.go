package meta

import (
	"fmt"
	"time"

	"github.com/geappliances/erdgen/internal/codegen/erd"
	"github.com/geappliances/erdgen/internal/codegen/scanner"
	"github.com/geappliances/erdgen/internal/codegen/source"
)

// Mode is the bridge operating mode the firmware is built for.
type Mode string

const (
	ModePoll      Mode = "poll"
	ModeSubscribe Mode = "subscribe"
	ModeAuto      Mode = "auto"
)

// ParseMode accepts the mode names case-sensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePoll, ModeSubscribe, ModeAuto:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected poll, subscribe or auto)", s)
	}
}

// NeedsRegisterLists reports whether firmware in this mode polls and so needs
// the generated register lists.
func (m Mode) NeedsRegisterLists() bool {
	return m == ModePoll || m == ModeAuto
}

// Accepted polling interval range.
const (
	MinPollingInterval     = time.Second
	MaxPollingInterval     = time.Hour
	DefaultPollingInterval = 3 * time.Second
)

// DefaultClientAddress is the GEA address the bridge talks from.
const DefaultClientAddress = 0xE4

// Build is the host component configuration baked into the artifacts.
type Build struct {
	Mode            Mode
	DeviceID        string
	PollingInterval time.Duration
	// ClientAddress is the bridge's GEA address, 0x00 to 0xFF.
	ClientAddress int
	// HeaderName is the file name the definitions include.
	HeaderName string
}

// Validate checks the mode, the polling interval range and the client address.
func (b Build) Validate() error {
	if _, err := ParseMode(string(b.Mode)); err != nil {
		return err
	}
	if b.PollingInterval < MinPollingInterval || b.PollingInterval > MaxPollingInterval {
		return fmt.Errorf("polling interval %s out of range [%s, %s]", b.PollingInterval, MinPollingInterval, MaxPollingInterval)
	}
	if b.ClientAddress < 0 || b.ClientAddress > 0xFF {
		return fmt.Errorf("client address %#x out of range [0x00, 0xff]", b.ClientAddress)
	}
	return nil
}

// Feature is one feature API with its register lists split per series.
// Common and energy series are not part of Groups.
type Feature struct {
	Key    string
	Ident  string
	Groups []erd.Group
}

// Digest identifies one input document; Sum is empty when it was unresolved.
// Source is kept for logging and is not rendered.
type Digest struct {
	Document string
	Sum      string
	Source   source.Source
}

// Metadata holds everything collected for rendering.
type Metadata struct {
	Build          Build
	ApplianceTypes scanner.ApplianceTypes
	Common         []erd.ERD
	Energy         []erd.ERD
	Minimal        []erd.ERD
	Features       []Feature
	// Degraded is set when no register lists were available.
	Degraded bool
	Digests  []Digest
	Version  string
}
