package dto

import (
	"innkeep/shared/constant"
	"innkeep/shared/model"
	"innkeep/shared/timezone"
)

// Metadata is the display form of record timestamps.
type Metadata struct {
	CreatedAt string
	UpdatedAt string
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.DateTimeFormat)
	m.UpdatedAt = timezone.Format(model.UpdatedAt, constant.DateTimeFormat)
}
