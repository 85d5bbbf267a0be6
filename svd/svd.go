// Package svd reads the parts of a CMSIS-SVD device description the
// startup code is generated from: the core, the peripheral base addresses
// and the interrupt numbering.
package svd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slices"
)

var (
	ErrInterruptConflict = errors.New("interrupt number assigned twice")
	ErrInvalidInterrupt  = errors.New("invalid interrupt number")
	ErrUnknownDerivation = errors.New("peripheral derived from unknown peripheral")
)

type DeviceElement struct {
	Name          string             `xml:"name"`
	Description   string             `xml:"description"`
	Series        string             `xml:"series"`
	Version       string             `xml:"version"`
	Vendor        string             `xml:"vendor"`
	CPU           CPUElement         `xml:"cpu"`
	BitWidth      Integer            `xml:"width"`
	AddressUnit   Integer            `xml:"addressUnitBits"`
	RegisterSize  Integer            `xml:"size"`
	DefaultAccess string             `xml:"access"`
	Peripherals   PeripheralsElement `xml:"peripherals"`
}

type CPUElement struct {
	Name             string  `xml:"name"`
	Revision         string  `xml:"revision"`
	Endian           string  `xml:"endian"`
	MPUPresent       bool    `xml:"mpuPresent"`
	FPUPresent       bool    `xml:"fpuPresent"`
	NVICPriorityBits Integer `xml:"nvicPrioBits"`
}

type PeripheralsElement struct {
	Elements []PeripheralElement `xml:"peripheral"`
}

func (p PeripheralsElement) Find(name string) (int, bool) {
	if len(name) > 0 {
		for i, pp := range p.Elements {
			if pp.Name == name {
				return i, true
			}
		}
	}
	return -1, false
}

type PeripheralElement struct {
	Name         string              `xml:"name"`
	Description  string              `xml:"description"`
	Group        string              `xml:"groupName"`
	BaseAddress  Integer             `xml:"baseAddress"`
	AddressBlock AddressBlockElement `xml:"addressBlock"`
	Interrupts   []InterruptElement  `xml:"interrupt"`
	DerivedFrom  string              `xml:"derivedFrom,attr"`
}

type AddressBlockElement struct {
	Offset Integer `xml:"offset"`
	Size   Integer `xml:"size"`
}

type InterruptElement struct {
	Name        string  `xml:"name"`
	Description string  `xml:"description"`
	Value       Integer `xml:"value"`
}

// Parse decodes an SVD document.
func Parse(r io.Reader) (*DeviceElement, error) {
	var device DeviceElement
	if err := xml.NewDecoder(r).Decode(&device); err != nil {
		return nil, fmt.Errorf("xml decode error: %w", err)
	}

	// Derived peripherals inherit what they leave out
	for i, periph := range device.Peripherals.Elements {
		if periph.DerivedFrom == "" {
			continue
		}
		j, ok := device.Peripherals.Find(periph.DerivedFrom)
		if !ok {
			return nil, fmt.Errorf("%w: %s derives from %s", ErrUnknownDerivation, periph.Name, periph.DerivedFrom)
		}
		base := device.Peripherals.Elements[j]
		if periph.Group == "" {
			device.Peripherals.Elements[i].Group = base.Group
		}
		if periph.AddressBlock == (AddressBlockElement{}) {
			device.Peripherals.Elements[i].AddressBlock = base.AddressBlock
		}
	}
	return &device, nil
}

// Interrupts returns the device's peripheral interrupts ordered by number.
// Peripherals sharing a line, like the SPI and TWI instances of the
// nRF51, list it once.
func (d *DeviceElement) Interrupts() ([]InterruptElement, error) {
	var irqs []InterruptElement
	var errs []error
	for _, periph := range d.Peripherals.Elements {
		for _, irq := range periph.Interrupts {
			if irq.Value < 0 {
				errs = append(errs, fmt.Errorf("%w: %s = %d", ErrInvalidInterrupt, irq.Name, irq.Value))
				continue
			}
			i := slices.IndexFunc(irqs, func(other InterruptElement) bool {
				return other.Value == irq.Value
			})
			switch {
			case i < 0:
				irqs = append(irqs, irq)
			case irqs[i].Name != irq.Name:
				errs = append(errs, fmt.Errorf("%w: %d is %s and %s", ErrInterruptConflict, irq.Value, irqs[i].Name, irq.Name))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortFunc(irqs, func(a, b InterruptElement) bool {
		return a.Value < b.Value
	})
	return irqs, nil
}

// Instances returns the base addresses of the peripherals in group, in
// document order.
func (d *DeviceElement) Instances(group string) []uint32 {
	var bases []uint32
	for _, periph := range d.Peripherals.Elements {
		if periph.Group == group {
			bases = append(bases, uint32(periph.BaseAddress))
		}
	}
	return bases
}
