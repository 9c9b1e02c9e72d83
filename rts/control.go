package rts

// Control is the command nibble of a message.
type Control uint8

const (
	ControlMy      Control = 1
	ControlUp      Control = 2
	ControlMyUp    Control = 3
	ControlDown    Control = 4
	ControlMyDown  Control = 5
	ControlUpDown  Control = 6
	ControlProg    Control = 8
	ControlSunFlag Control = 9
	ControlFlag    Control = 10
)

// Meaning of 0, 7 and 11-15 is unknown.
var controlLabels = [16]string{
	"? (0)",
	"My (1)",
	"Up (2)",
	"My + Up (3)",
	"Down (4)",
	"My + Down (5)",
	"Up + Down (6)",
	"? (7)",
	"Prog (8)",
	"Sun + Flag (9)",
	"Flag (10)",
	"? (11)",
	"? (12)",
	"? (13)",
	"? (14)",
	"? (15)",
}

var controlCommands = [16]string{
	ControlMy:      "my",
	ControlUp:      "up",
	ControlMyUp:    "my+up",
	ControlDown:    "down",
	ControlMyDown:  "my+down",
	ControlUpDown:  "up+down",
	ControlProg:    "prog",
	ControlSunFlag: "sun+flag",
	ControlFlag:    "flag",
}

func (c Control) String() string {
	return controlLabels[c&0xf]
}

// Command is the gohome command name, empty for reserved codes.
func (c Control) Command() string {
	return controlCommands[c&0xf]
}

func (c Control) Reserved() bool {
	return c.Command() == ""
}

// ParseControl finds the control with the given label, eg. "Up (2)".
func ParseControl(label string) (Control, bool) {
	for i, l := range controlLabels {
		if l == label {
			return Control(i), true
		}
	}
	return 0, false
}
