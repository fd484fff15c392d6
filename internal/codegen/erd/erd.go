// Package erd models GEA register identifiers (ERDs) and groups them into
// 4096-wide series.
package erd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ERD is a 16-bit register identifier in the appliance register space.
type ERD uint16

const (
	// ApplianceType is the register every appliance publishes its type on.
	ApplianceType ERD = 0x0008

	// SeriesSize is the width of one series block.
	SeriesSize = 0x1000

	// CommonSeries holds registers applicable to every appliance.
	CommonSeries ERD = 0x0000
	// EnergySeries holds energy and diagnostics registers.
	EnergySeries ERD = 0xD000
)

var ErrMalformed = errors.New("malformed erd token")

// Parse reads a hex token of the form "0xHHHH". The prefix is case-insensitive
// and between one and four hex digits are accepted.
func Parse(token string) (ERD, error) {
	t := strings.TrimSpace(token)
	if len(t) < 3 || t[0] != '0' || (t[1] != 'x' && t[1] != 'X') || len(t) > 6 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	v, err := strconv.ParseUint(t[2:], 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	return ERD(v), nil
}

// String renders the canonical 4-hex-digit token, e.g. "0x0008".
func (e ERD) String() string {
	return fmt.Sprintf("0x%04X", uint16(e))
}

// Series returns the lowest identifier of the block e belongs to.
func (e ERD) Series() ERD {
	return e / SeriesSize * SeriesSize
}

// SeriesOf returns the series token of a register token.
func SeriesOf(token string) (string, error) {
	e, err := Parse(token)
	if err != nil {
		return "", err
	}
	return e.Series().String(), nil
}
