package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/polysim/internal/experiment"
)

func ExportJSON(path string, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, result)
}

func WriteJSON(w io.Writer, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
