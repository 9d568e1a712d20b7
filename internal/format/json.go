package format

import (
	"encoding/json"
	"fmt"

	"github.com/gopatchy/springcfg/pkg/errors"
)

// Mappings marshal through their own MarshalJSON, so key order survives
// JSON output.

func jsonMarshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	return append(raw, '\n'), nil
}

func jsonMarshalPretty(v any) ([]byte, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	return append(raw, '\n'), nil
}
