package format

import (
	"fmt"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

func tomlMarshal(v any) ([]byte, error) {
	raw, err := toml.Marshal(document.ToPlain(v))
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	return raw, nil
}
