package converter

import (
	"encoding/json"
	"fmt"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

type confirmationConverter struct{}

func NewConfirmationConverter() *confirmationConverter { return &confirmationConverter{} }

// ConfirmationToModel decodes an out-of-band create confirmation. The final
// record stays a loose map here; the sync service runs it through the
// canonicalizer before the swap.
func (c *confirmationConverter) ConfirmationToModel(data []byte) (model.CreateConfirmation, error) {
	var conf model.CreateConfirmation
	if err := json.Unmarshal(data, &conf); err != nil {
		return model.CreateConfirmation{}, fmt.Errorf("failed to unmarshal confirmation: %w", err)
	}

	if conf.TemporaryID == "" {
		return model.CreateConfirmation{}, fmt.Errorf("confirmation without temporaryId: %w", model.ErrValidation)
	}
	if conf.FinalRecord == nil {
		return model.CreateConfirmation{}, fmt.Errorf("confirmation without finalRecord: %w", model.ErrValidation)
	}

	return conf, nil
}
