package format

import "fmt"

// UnsupportedFormatError is returned when a format key has no adapter.
// Unknown formats are programmer/integration errors and surface immediately.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %q", e.Format)
}

// adapters holds the immutable singleton adapter per format. Built once at
// init and shared by every concurrent evaluation.
var adapters = map[Format]Adapter{
	FormatStandard:  newAdapter(standardConfig),
	FormatModern:    newAdapter(modernConfig),
	FormatCommander: newAdapter(commanderConfig),
	FormatBrawl:     newAdapter(brawlConfig),
}

// ForFormat returns the adapter for the given format key.
func ForFormat(f Format) (Adapter, error) {
	adapter, ok := adapters[f]
	if !ok {
		return nil, &UnsupportedFormatError{Format: string(f)}
	}
	return adapter, nil
}

// Parse converts a raw format string into a Format, or fails with
// UnsupportedFormatError.
func Parse(raw string) (Format, error) {
	f := Format(raw)
	if _, ok := adapters[f]; !ok {
		return "", &UnsupportedFormatError{Format: raw}
	}
	return f, nil
}

// Supported returns the supported formats in a stable order.
func Supported() []Format {
	return []Format{FormatStandard, FormatModern, FormatCommander, FormatBrawl}
}
