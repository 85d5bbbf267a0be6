package targets

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"omibyte.io/bootcore/boot"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets

var (
	ErrTargetNotFound = errors.New("target not found")
	ErrImageTooLarge  = errors.New("image does not fit the target memory")
)

func All() Targets {
	return targets
}

type Targets []TargetInfo

// Memory is one memory bank of the target.
type Memory struct {
	Origin uint32 `yaml:"origin"`
	Length uint32 `yaml:"length"`
}

func (m Memory) End() uint32 {
	return m.Origin + m.Length
}

// FaultPattern configures the default fault handler's distress signal.
type FaultPattern struct {
	DirMask   uint32 `yaml:"dirMask"`
	Indicator uint32 `yaml:"indicator"`
	Idle      uint32 `yaml:"idle"`
	OnMicros  uint32 `yaml:"onMicros"`
	OffMicros uint32 `yaml:"offMicros"`
}

type TargetInfo struct {
	Board        string            `yaml:"board"`
	Series       string            `yaml:"series"`
	Chips        []string          `yaml:"chips"`
	Cpu          string            `yaml:"cpu"`
	Triple       string            `yaml:"triple"`
	ClockHz      uint64            `yaml:"clockHz"`
	PriorityBits uint              `yaml:"priorityBits"`
	IRQSlots     int               `yaml:"irqSlots"`
	Flash        Memory            `yaml:"flash"`
	RAM          Memory            `yaml:"ram"`
	StackSize    uint32            `yaml:"stackSize"`
	Fault        FaultPattern      `yaml:"fault"`
	HandlerNames map[string]string `yaml:"handlerNames"`
	// Devices maps a device table name to the SVD peripheral group
	// whose instances it lists.
	Devices map[string]string `yaml:"devices"`
	Tags    []string          `yaml:"tags"`
}

// PriorityMask returns the implemented bits of each priority byte lane
// replicated over a 32-bit priority register.
func (t TargetInfo) PriorityMask() uint32 {
	lane := (uint32(0xFF) << (8 - t.PriorityBits)) & 0xFF
	return lane * 0x01010101
}

// HandlerName returns the handler symbol for a peripheral interrupt named
// in the silicon's device description.
func (t TargetInfo) HandlerName(irq string) string {
	if name, ok := t.HandlerNames[irq]; ok {
		return name + "_handler"
	}
	return strings.ToLower(irq) + "_handler"
}

// Layout places initialised data at the start of RAM followed by bss,
// loads data from etext in flash and puts the stack at the top of RAM.
func (t TargetInfo) Layout(etext, dataSize, bssSize uint32) (boot.Layout, error) {
	var errs []error
	if etext < t.Flash.Origin || uint64(etext)+uint64(dataSize) > uint64(t.Flash.End()) {
		errs = append(errs, fmt.Errorf("%w: flash needs 0x%X bytes, has 0x%X", ErrImageTooLarge,
			uint64(etext)+uint64(dataSize)-uint64(t.Flash.Origin), t.Flash.Length))
	}
	if uint64(dataSize)+uint64(bssSize)+uint64(t.StackSize) > uint64(t.RAM.Length) {
		errs = append(errs, fmt.Errorf("%w: ram needs 0x%X bytes, has 0x%X", ErrImageTooLarge,
			uint64(dataSize)+uint64(bssSize)+uint64(t.StackSize), t.RAM.Length))
	}
	if len(errs) > 0 {
		return boot.Layout{}, errors.Join(errs...)
	}

	data := boot.Region{Start: t.RAM.Origin, End: t.RAM.Origin + dataSize, Load: etext}
	l := boot.Layout{
		Data:  data,
		Bss:   boot.Region{Start: data.End, End: data.End + bssSize},
		Stack: t.RAM.End(),
	}
	return l, l.Validate()
}

func (t Targets) FindByBoard(name string) (TargetInfo, error) {
	for _, target := range t {
		if target.Board == strings.ToLower(name) {
			return target, nil
		}
	}
	return TargetInfo{}, fmt.Errorf("%w: board %s", ErrTargetNotFound, name)
}

func (t Targets) FindByChip(name string) (TargetInfo, error) {
	for _, target := range t {
		if slices.Contains(target.Chips, strings.ToLower(name)) {
			return target, nil
		}
	}
	return TargetInfo{}, fmt.Errorf("%w: chip %s", ErrTargetNotFound, name)
}

// Find looks name up as a board first and then as a chip.
func (t Targets) Find(name string) (TargetInfo, error) {
	if target, err := t.FindByBoard(name); err == nil {
		return target, nil
	}
	return t.FindByChip(name)
}

// Boards returns the sorted board names.
func (t Targets) Boards() []string {
	names := make([]string, 0, len(t))
	for _, target := range t {
		names = append(names, target.Board)
	}
	sort.Strings(names)
	return names
}

func init() {
	var t struct {
		Elements []TargetInfo `yaml:"targets"`
	}
	if err := yaml.Unmarshal(rawTargets, &t); err != nil {
		panic(err)
	}

	targets = t.Elements
}
