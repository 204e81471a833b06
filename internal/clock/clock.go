package clock

import (
	"time"

	"go.uber.org/fx"
)

var Module = fx.Provide(NewSystemClock)

// Clock abstracts time for services that stamp records.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }
