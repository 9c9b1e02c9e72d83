package rts

import "fmt"

// Device carries the demodulator settings a capture needs for rows to come out
// the way the decoder expects. Widths and limits are in microseconds.
type Device struct {
	Name       string
	Modulation string
	ShortWidth int
	LongWidth  int
	// Hardware sync is 4 bit widths. The PCM demodulator ignores it.
	SyncWidth int
	// GapLimit splits the start pulse of a first frame into its own row.
	GapLimit int
	// ResetLimit is above the 6644us gap after the start pulse and below
	// the ~30ms gap between frames.
	ResetLimit int
	// Tolerance is a percentage of the bit width.
	Tolerance int
	Fields    []string
}

var DefaultDevice = Device{
	Name:       "Somfy RTS",
	Modulation: "OOK_PCM_RZ",
	ShortWidth: 604,
	LongWidth:  604,
	SyncWidth:  2416,
	GapLimit:   3000,
	ResetLimit: 10000,
	Tolerance:  20,
	Fields:     OutputFields,
}

// FlexSpec renders an rtl_433 flex decoder (-X) spec for capturing test
// signals with these settings.
func (d Device) FlexSpec(name string) string {
	return fmt.Sprintf("n=%s,m=OOK_PCM,s=%d,l=%d,t=%d,r=%d,g=%d,y=%d",
		name, d.ShortWidth, d.LongWidth, d.ShortWidth*d.Tolerance/100,
		d.ResetLimit, d.GapLimit, d.SyncWidth)
}

func (d Device) String() string {
	return fmt.Sprintf("%s: modulation=%s short=%d long=%d gap=%d reset=%d tolerance=%d%%",
		d.Name, d.Modulation, d.ShortWidth, d.LongWidth, d.GapLimit, d.ResetLimit, d.Tolerance)
}
