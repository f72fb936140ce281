// Package codec centralizes decoding of catalog artifacts.
//
// The offline batch job currently ships JSON artifacts; treating codec
// selection as an explicit boundary keeps the door open for a binary
// metadata format without touching the loaders.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}
