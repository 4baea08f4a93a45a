package types

// Mode is what the terminal sorter's text input is currently collecting
type Mode int

const (
	// Label is the default mode: the input holds the label(s) for the current image
	Label Mode = iota
	// Destination asks for the base folder of a new move-mode label
	Destination
	// Source asks for the folder to browse
	Source
)

// String returns the prompt shown next to the input
func (m Mode) String() string {
	switch m {
	case Destination:
		return "Base folder"
	case Source:
		return "Image folder"
	default:
		return "Label"
	}
}
