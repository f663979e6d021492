package progress

import (
	"errors"

	"github.com/sensei-learn/backend/internal/cloudsync"
)

var (
	ErrCharacterNotPracticed = errors.New("character has not been practiced yet")
	ErrCloudDisabled         = cloudsync.ErrCloudDisabled
)
