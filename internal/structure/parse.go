package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"slidecast/internal/services"
)

// Parse reads a structure document and validates it.
func Parse(r io.Reader) (Capsule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Capsule{}, services.Wrap(services.ErrValidation, "structure", "read document", "", err)
	}
	return Decode(data)
}

// Decode parses a structure document held in memory and validates it.
func Decode(data []byte) (Capsule, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Capsule{}, services.Wrap(services.ErrValidation, "structure", "decode", "empty document", nil)
	}
	var capsule Capsule
	if err := json.Unmarshal(data, &capsule); err != nil {
		if errors.Is(err, services.ErrUnsupportedConfiguration) {
			return Capsule{}, err
		}
		return Capsule{}, services.Wrap(services.ErrValidation, "structure", "decode", "malformed document", err)
	}
	if err := capsule.Validate(); err != nil {
		return Capsule{}, err
	}
	return capsule, nil
}

// Encode writes the document as JSON.
func (c Capsule) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	return nil
}
